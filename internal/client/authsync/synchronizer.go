// Package authsync keeps the dashboard's notion of the current user in
// step with the backend session and the local session store.
package authsync

import (
	"context"
	"medrec-service/internal/app/models"
	"medrec-service/internal/client/sdk"
	"medrec-service/internal/client/sessionstore"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/dto/responses"
	"sync"

	"go.uber.org/zap"
)

// Backend is the slice of the SDK the synchronizer consumes.
type Backend interface {
	GetSession(ctx context.Context) (*responses.AuthSession, error)
	OnSessionChange(listener sdk.Listener) (unsubscribe func())
	SelectProfile(ctx context.Context, userID string) (*models.Profile, error)
}

type Synchronizer struct {
	backend Backend
	store   sessionstore.Store
	log     *zap.Logger
	inbox   *mailbox

	mu          sync.RWMutex
	model       model
	subscribers map[int]chan State
	nextSubID   int

	ready     chan struct{}
	readyOnce sync.Once

	startOnce   sync.Once
	stopOnce    sync.Once
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
}

func New(backend Backend, store sessionstore.Store, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		backend:     backend,
		store:       store,
		log:         logger,
		inbox:       newMailbox(),
		model:       model{state: State{Loading: true}},
		subscribers: make(map[int]chan State),
		ready:       make(chan struct{}),
	}
}

// Start reads the cached user synchronously, then subscribes to the
// backend and fetches the session once. It returns immediately.
func (s *Synchronizer) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		s.cancel = cancel

		cached, err := s.store.Get(runCtx)
		if err != nil {
			s.log.Warn("authsync: failed to read cached user", zap.Error(err))
		}
		if cached != nil {
			s.mu.Lock()
			s.model.state = State{CurrentUser: cached, Loading: false}
			s.mu.Unlock()
			s.log.Debug("authsync: restored cached user",
				zap.String(constvars.LoggingUserIDKey, cached.ID),
				zap.String(constvars.LoggingRoleKey, cached.Role.String()),
			)
		}

		s.wg.Add(1)
		go s.dispatch(runCtx)

		s.unsubscribe = s.backend.OnSessionChange(func(event sdk.AuthEvent, session *responses.AuthSession) {
			s.inbox.post(sessionNotified{event: event, session: session})
		})

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			session, err := s.backend.GetSession(runCtx)
			if err != nil {
				s.log.Error("authsync: session fetch failed", zap.Error(err))
			}
			s.inbox.post(sessionFetched{session: session, err: err})
		}()
	})
}

// Stop unsubscribes from the backend and waits for every goroutine Start
// launched. Change channels are closed afterwards.
func (s *Synchronizer) Stop() {
	s.stopOnce.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		if s.cancel != nil {
			s.cancel()
		}
		s.wg.Wait()

		s.mu.Lock()
		for id, ch := range s.subscribers {
			close(ch)
			delete(s.subscribers, id)
		}
		s.mu.Unlock()
	})
}

func (s *Synchronizer) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model.state
}

// Ready is closed once the first auth answer has been applied.
func (s *Synchronizer) Ready() <-chan struct{} {
	return s.ready
}

// Changes streams state snapshots. Slow readers only see the latest one.
func (s *Synchronizer) Changes() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 1)
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			close(sub)
			delete(s.subscribers, id)
		}
	}
}

func (s *Synchronizer) dispatch(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.inbox.signal:
		}

		for _, msg := range s.inbox.drain() {
			if ctx.Err() != nil {
				return
			}
			s.handle(ctx, msg)
		}
	}
}

func (s *Synchronizer) handle(ctx context.Context, msg message) {
	s.mu.Lock()
	next, effects := reduce(s.model, msg)
	changed := next.state != s.model.state
	s.model = next
	state := next.state
	s.mu.Unlock()

	var lookups []lookupProfile
	for _, eff := range effects {
		switch eff := eff.(type) {
		case persistUser:
			if err := s.store.Set(ctx, eff.user); err != nil {
				s.log.Warn("authsync: failed to persist user", zap.Error(err))
			}
		case clearStore:
			if err := s.store.Clear(ctx); err != nil {
				s.log.Warn("authsync: failed to clear cached user", zap.Error(err))
			}
		case lookupProfile:
			lookups = append(lookups, eff)
		}
	}

	if changed {
		s.publish(state)
	}
	if state.Ready {
		s.readyOnce.Do(func() { close(s.ready) })
	}

	// lookups run after this dispatch so the provider callback that
	// triggered them has returned
	for _, lookup := range lookups {
		s.scheduleLookup(ctx, lookup)
	}
}

func (s *Synchronizer) scheduleLookup(ctx context.Context, lookup lookupProfile) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		profile, err := s.backend.SelectProfile(ctx, lookup.user.ID)
		if err != nil {
			s.log.Warn("authsync: profile lookup failed, using session metadata",
				zap.String(constvars.LoggingUserIDKey, lookup.user.ID),
				zap.Error(err),
			)
		}
		s.inbox.post(profileLoaded{
			generation: lookup.generation,
			user:       lookup.user,
			profile:    profile,
			err:        err,
		})
	}()
}

func (s *Synchronizer) publish(state State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}
