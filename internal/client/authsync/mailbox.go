package authsync

import "sync"

// mailbox is an unbounded FIFO. post never blocks, so it is safe to call
// from inside provider callbacks.
type mailbox struct {
	mu     sync.Mutex
	queue  []message
	signal chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{signal: make(chan struct{}, 1)}
}

func (mb *mailbox) post(msg message) {
	mb.mu.Lock()
	mb.queue = append(mb.queue, msg)
	mb.mu.Unlock()

	select {
	case mb.signal <- struct{}{}:
	default:
	}
}

func (mb *mailbox) drain() []message {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	msgs := mb.queue
	mb.queue = nil
	return msgs
}
