// Package sessionstore caches the signed-in user on the local machine so a
// restart can render immediately, before the backend answers.
package sessionstore

import (
	"context"
	"medrec-service/internal/app/models"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	CurrentUserKey = "medrec.currentUser"
	AccessTokenKey = "medrec.accessToken"
)

// Store holds at most one CurrentUser.
type Store interface {
	Get(ctx context.Context) (*models.CurrentUser, error)
	Set(ctx context.Context, user models.CurrentUser) error
	Clear(ctx context.Context) error
}

// KeyValue is the raw local storage shared by the session store and the
// SDK token cache.
type KeyValue interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type CurrentUserStore struct {
	kv  KeyValue
	log *zap.Logger
}

func New(kv KeyValue, logger *zap.Logger) *CurrentUserStore {
	return &CurrentUserStore{kv: kv, log: logger}
}

// Get returns nil when nothing is cached. A value that cannot be decoded
// is removed and reported as absent.
func (s *CurrentUserStore) Get(ctx context.Context) (*models.CurrentUser, error) {
	raw, ok, err := s.kv.Load(ctx, CurrentUserKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	user := new(models.CurrentUser)
	err = json.Unmarshal([]byte(raw), user)
	if err == nil && (strings.TrimSpace(user.ID) == "" || !user.Role.Valid()) {
		err = errCorruptUser
	}
	if err != nil {
		s.log.Warn("sessionstore: discarding unreadable cached user", zap.Error(err))
		if removeErr := s.kv.Remove(ctx, CurrentUserKey); removeErr != nil {
			s.log.Warn("sessionstore: failed to remove cached user", zap.Error(removeErr))
		}
		return nil, nil
	}
	return user, nil
}

func (s *CurrentUserStore) Set(ctx context.Context, user models.CurrentUser) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.kv.Save(ctx, CurrentUserKey, string(raw))
}

func (s *CurrentUserStore) Clear(ctx context.Context) error {
	return s.kv.Remove(ctx, CurrentUserKey)
}
