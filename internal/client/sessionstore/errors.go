package sessionstore

import "errors"

var (
	errCorruptUser = errors.New("cached user is missing an id or has an unknown role")
	ErrClosed      = errors.New("sessionstore: store is closed")
)
