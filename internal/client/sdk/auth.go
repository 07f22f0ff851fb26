package sdk

import (
	"context"
	"medrec-service/internal/client/sessionstore"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/dto/requests"
	"medrec-service/internal/pkg/dto/responses"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"
)

type AuthEvent string

const (
	EventInitialSession AuthEvent = "INITIAL_SESSION"
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
)

// Listener receives auth transitions. It runs while the client holds its
// lock, so it must not call the client synchronously.
type Listener func(event AuthEvent, session *responses.AuthSession)

type SignUpParams struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// GetSession returns the live session, or nil when signed out. The first
// call restores a persisted token and checks it with the backend.
func (c *Client) GetSession(ctx context.Context) (*responses.AuthSession, error) {
	c.mu.Lock()
	if c.loaded {
		session := c.liveSessionLocked()
		c.mu.Unlock()
		return cloneSession(session), nil
	}
	generation := c.generation
	c.mu.Unlock()

	token, ok, err := c.tokens.Load(ctx, sessionstore.AccessTokenKey)
	if err != nil {
		return nil, err
	}

	var session *responses.AuthSession
	if ok && token != "" {
		restored := new(responses.AuthSession)
		err = c.doWithToken(ctx, constvars.MethodGet, "/auth/session", token, nil, restored)
		switch {
		case err == nil:
			session = restored
		case StatusCode(err) == http.StatusUnauthorized:
			c.log.Info("sdk: persisted session is no longer valid")
			if removeErr := c.tokens.Remove(ctx, sessionstore.AccessTokenKey); removeErr != nil {
				c.log.Warn("sdk: failed to remove stale token", zap.Error(removeErr))
			}
		default:
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// a sign-in or sign-out that finished meanwhile wins
	if c.generation == generation {
		c.session = session
		c.loaded = true
	}
	return cloneSession(c.session), nil
}

// OnSessionChange registers listener and delivers INITIAL_SESSION to it
// from another goroutine once the session is known.
func (c *Client) OnSessionChange(listener Listener) (unsubscribe func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return func() {}
	}
	id := c.nextID
	c.nextID++
	c.listeners[id] = listener
	c.initialWait.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.initialWait.Done()

		session, err := c.GetSession(c.ctx)
		if err != nil {
			c.log.Warn("sdk: initial session lookup failed", zap.Error(err))
			session = nil
		}
		c.deliverInitialSession(id, session)
	}()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// deliverInitialSession sends INITIAL_SESSION to one listener. Once the
// session is known it sends the current one, since a sign-in or sign-out may
// have landed after the lookup.
func (c *Client) deliverInitialSession(id int, lookedUp *responses.AuthSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx.Err() != nil {
		return
	}
	registered, ok := c.listeners[id]
	if !ok {
		return
	}
	session := lookedUp
	if c.loaded {
		session = cloneSession(c.liveSessionLocked())
	}
	registered(EventInitialSession, session)
}

// liveSessionLocked must be called with c.mu held.
func (c *Client) liveSessionLocked() *responses.AuthSession {
	session := c.session
	if session != nil && session.ExpiresAt > 0 && time.Now().Unix() >= session.ExpiresAt {
		return nil
	}
	return session
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*responses.AuthSession, error) {
	session := new(responses.AuthSession)
	err := c.doWithToken(ctx, constvars.MethodPost, "/auth/signin", "", requests.SignIn{
		Email:    email,
		Password: password,
	}, session)
	if err != nil {
		return nil, err
	}
	c.signedIn(ctx, session)
	return cloneSession(session), nil
}

func (c *Client) SignUp(ctx context.Context, params SignUpParams) (*responses.AuthSession, error) {
	session := new(responses.AuthSession)
	err := c.doWithToken(ctx, constvars.MethodPost, "/auth/signup", "", requests.SignUp{
		Email:    params.Email,
		Password: params.Password,
		FullName: params.FullName,
		Role:     params.Role,
	}, session)
	if err != nil {
		return nil, err
	}
	c.signedIn(ctx, session)
	return cloneSession(session), nil
}

// SignOut always forgets the local session. The backend error, if any, is
// returned after SIGNED_OUT has been delivered.
func (c *Client) SignOut(ctx context.Context) error {
	token := c.accessToken()
	if token == "" {
		stored, ok, err := c.tokens.Load(ctx, sessionstore.AccessTokenKey)
		if err == nil && ok {
			token = stored
		}
	}

	var serverErr error
	if token != "" {
		serverErr = c.doWithToken(ctx, constvars.MethodPost, "/auth/signout", token, nil, nil)
		if StatusCode(serverErr) == http.StatusUnauthorized {
			serverErr = nil
		}
	}

	if err := c.tokens.Remove(ctx, sessionstore.AccessTokenKey); err != nil {
		c.log.Warn("sdk: failed to remove token", zap.Error(err))
	}

	c.mu.Lock()
	c.session = nil
	c.loaded = true
	c.generation++
	c.emit(EventSignedOut, nil)
	c.mu.Unlock()

	return serverErr
}

func (c *Client) signedIn(ctx context.Context, session *responses.AuthSession) {
	if err := c.tokens.Save(ctx, sessionstore.AccessTokenKey, session.AccessToken); err != nil {
		c.log.Warn("sdk: failed to persist token", zap.Error(err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
	c.loaded = true
	c.generation++
	c.emit(EventSignedIn, session)
}

// emit must be called with c.mu held.
func (c *Client) emit(event AuthEvent, session *responses.AuthSession) {
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		c.listeners[id](event, cloneSession(session))
	}
}

func cloneSession(session *responses.AuthSession) *responses.AuthSession {
	if session == nil {
		return nil
	}
	clone := *session
	return &clone
}
