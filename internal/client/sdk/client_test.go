package sdk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"medrec-service/internal/app/models"
	"medrec-service/internal/client/sessionstore"
	"medrec-service/internal/pkg/dto/requests"
	"medrec-service/internal/pkg/dto/responses"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeBackend speaks the envelope format of the REST API.
type fakeBackend struct {
	mu            sync.Mutex
	sessions      map[string]*responses.AuthSession
	patients      []models.Patient
	lastQuery     string
	lastPatch     map[string]interface{}
	signOutTokens []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{sessions: map[string]*responses.AuthSession{}}
}

func (b *fakeBackend) session(token string, user responses.AuthUser) *responses.AuthSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	session := &responses.AuthSession{AccessToken: token, TokenType: "bearer", ExpiresAt: time.Now().Add(time.Hour).Unix(), User: user}
	b.sessions[token] = session
	return session
}

func writeData(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(responses.ResponseDTO{Success: true, Message: "ok", Data: data})
}

func writeFailure(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": message})
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	session, authed := b.sessions[token]

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/signin":
		var req requests.SignIn
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "right-password" {
			writeFailure(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		for _, s := range b.sessions {
			if s.User.Email == req.Email {
				writeData(w, http.StatusOK, s)
				return
			}
		}
		writeFailure(w, http.StatusUnauthorized, "Invalid email or password")
	case r.Method == http.MethodGet && r.URL.Path == "/auth/session":
		if !authed {
			writeFailure(w, http.StatusUnauthorized, "You are not logged in")
			return
		}
		writeData(w, http.StatusOK, session)
	case r.Method == http.MethodPost && r.URL.Path == "/auth/signout":
		b.signOutTokens = append(b.signOutTokens, token)
		if !authed {
			writeFailure(w, http.StatusUnauthorized, "You are not logged in")
			return
		}
		delete(b.sessions, token)
		writeData(w, http.StatusOK, nil)
	case r.Method == http.MethodGet && r.URL.Path == "/patients":
		if !authed {
			writeFailure(w, http.StatusUnauthorized, "You are not logged in")
			return
		}
		b.lastQuery = r.URL.RawQuery
		writeData(w, http.StatusOK, b.patients)
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/patients/"):
		b.lastPatch = map[string]interface{}{}
		json.NewDecoder(r.Body).Decode(&b.lastPatch)
		writeData(w, http.StatusOK, models.Patient{ID: strings.TrimPrefix(r.URL.Path, "/patients/"), Status: models.PatientStatusDischarged})
	case r.Method == http.MethodGet && r.URL.Path == "/users/missing/profile":
		writeFailure(w, http.StatusNotFound, "Profile not found")
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/profile"):
		writeData(w, http.StatusOK, models.Profile{ID: strings.Split(r.URL.Path, "/")[2], FullName: "Dr Ann", Role: models.RoleAdmin})
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

type recordedEvent struct {
	event   AuthEvent
	session *responses.AuthSession
}

type eventLog struct {
	mu     sync.Mutex
	events []recordedEvent
	notify chan struct{}
}

func newEventLog() *eventLog {
	return &eventLog{notify: make(chan struct{}, 16)}
}

func (l *eventLog) listener(event AuthEvent, session *responses.AuthSession) {
	l.mu.Lock()
	l.events = append(l.events, recordedEvent{event, session})
	l.mu.Unlock()
	l.notify <- struct{}{}
}

func (l *eventLog) wait(t *testing.T, n int) []recordedEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		l.mu.Lock()
		if len(l.events) >= n {
			events := append([]recordedEvent(nil), l.events...)
			l.mu.Unlock()
			return events
		}
		l.mu.Unlock()
		select {
		case <-l.notify:
		case <-deadline:
			t.Fatalf("timed out waiting for %d auth events", n)
		}
	}
}

func newTestClient(t *testing.T, backend http.Handler, tokens sessionstore.KeyValue) *Client {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	client := New(Options{BaseURL: server.URL + "/", HTTPClient: server.Client(), Tokens: tokens})
	t.Cleanup(client.Close)
	return client
}

func TestSessionLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)

	ctx := context.Background()
	backend := newFakeBackend()
	backend.session("tok-ann", responses.AuthUser{ID: "u-1", Email: "ann@example.com"})
	tokens := sessionstore.NewMemory()
	client := newTestClient(t, backend, tokens)

	events := newEventLog()
	unsubscribe := client.OnSessionChange(events.listener)
	defer unsubscribe()

	got := events.wait(t, 1)
	assert.Equal(t, EventInitialSession, got[0].event)
	assert.Nil(t, got[0].session)

	session, err := client.SignInWithPassword(ctx, "ann@example.com", "right-password")
	require.NoError(t, err)
	assert.Equal(t, "tok-ann", session.AccessToken)

	got = events.wait(t, 2)
	assert.Equal(t, EventSignedIn, got[1].event)
	assert.Equal(t, "u-1", got[1].session.User.ID)

	stored, ok, err := tokens.Load(ctx, sessionstore.AccessTokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-ann", stored)

	current, err := client.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-ann", current.AccessToken)

	require.NoError(t, client.SignOut(ctx))
	got = events.wait(t, 3)
	assert.Equal(t, EventSignedOut, got[2].event)
	assert.Nil(t, got[2].session)

	_, ok, _ = tokens.Load(ctx, sessionstore.AccessTokenKey)
	assert.False(t, ok)

	current, err = client.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestRestoresPersistedToken(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		backend := newFakeBackend()
		backend.session("tok-1", responses.AuthUser{ID: "u-1"})
		tokens := sessionstore.NewMemory()
		require.NoError(t, tokens.Save(ctx, sessionstore.AccessTokenKey, "tok-1"))
		client := newTestClient(t, backend, tokens)

		events := newEventLog()
		defer client.OnSessionChange(events.listener)()

		got := events.wait(t, 1)
		require.NotNil(t, got[0].session)
		assert.Equal(t, "u-1", got[0].session.User.ID)
	})

	t.Run("revoked token is forgotten", func(t *testing.T) {
		tokens := sessionstore.NewMemory()
		require.NoError(t, tokens.Save(ctx, sessionstore.AccessTokenKey, "tok-gone"))
		client := newTestClient(t, newFakeBackend(), tokens)

		session, err := client.GetSession(ctx)

		require.NoError(t, err)
		assert.Nil(t, session)
		_, ok, _ := tokens.Load(ctx, sessionstore.AccessTokenKey)
		assert.False(t, ok)
	})

	t.Run("server failure is an error", func(t *testing.T) {
		tokens := sessionstore.NewMemory()
		require.NoError(t, tokens.Save(ctx, sessionstore.AccessTokenKey, "tok-1"))
		failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeFailure(w, http.StatusInternalServerError, "Something went wrong")
		})
		client := newTestClient(t, failing, tokens)

		_, err := client.GetSession(ctx)

		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
		assert.Equal(t, "Something went wrong", Message(err))
	})
}

func TestSignInFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.session("tok-ann", responses.AuthUser{ID: "u-1", Email: "ann@example.com"})
	client := newTestClient(t, backend, nil)

	_, err := client.SignInWithPassword(context.Background(), "ann@example.com", "wrong")

	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Equal(t, "Invalid email or password", Message(err))
}

func TestSignOutWithRevokedSessionStillSignsOut(t *testing.T) {
	ctx := context.Background()
	tokens := sessionstore.NewMemory()
	require.NoError(t, tokens.Save(ctx, sessionstore.AccessTokenKey, "tok-gone"))
	backend := newFakeBackend()
	client := newTestClient(t, backend, tokens)

	events := newEventLog()
	defer client.OnSessionChange(events.listener)()
	events.wait(t, 1)

	assert.NoError(t, client.SignOut(ctx))
	got := events.wait(t, 2)
	assert.Equal(t, EventSignedOut, got[1].event)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	backend := newFakeBackend()
	backend.session("tok-ann", responses.AuthUser{ID: "u-1", Email: "ann@example.com"})
	client := newTestClient(t, backend, nil)

	events := newEventLog()
	unsubscribe := client.OnSessionChange(events.listener)
	events.wait(t, 1)
	unsubscribe()

	_, err := client.SignInWithPassword(context.Background(), "ann@example.com", "right-password")
	require.NoError(t, err)

	events.mu.Lock()
	defer events.mu.Unlock()
	assert.Len(t, events.events, 1)
}

func TestDataCalls(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.session("tok-ann", responses.AuthUser{ID: "u-1", Email: "ann@example.com"})
	backend.patients = []models.Patient{{ID: "p-1", Name: "John Smith"}}
	client := newTestClient(t, backend, nil)

	_, err := client.SelectPatients(ctx, PatientQuery{})
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))

	_, err = client.SignInWithPassword(ctx, "ann@example.com", "right-password")
	require.NoError(t, err)

	t.Run("select with filters", func(t *testing.T) {
		patients, err := client.SelectPatients(ctx, PatientQuery{DoctorID: "u-1", Status: models.PatientStatusFollowUp, FollowUpDate: "2024-06-15"})

		require.NoError(t, err)
		assert.Len(t, patients, 1)
		backend.mu.Lock()
		defer backend.mu.Unlock()
		assert.Equal(t, "doctor_id=u-1&follow_up_date=2024-06-15&status=Follow-Up", backend.lastQuery)
	})

	t.Run("update sends an explicit null follow-up date", func(t *testing.T) {
		status := models.PatientStatusDischarged
		updated, err := client.UpdatePatient(ctx, "p-1", &requests.UpdatePatient{Status: &status})

		require.NoError(t, err)
		assert.Equal(t, "p-1", updated.ID)
		backend.mu.Lock()
		defer backend.mu.Unlock()
		value, present := backend.lastPatch["followUpDate"]
		assert.True(t, present)
		assert.Nil(t, value)
	})

	t.Run("profile", func(t *testing.T) {
		profile, err := client.SelectProfile(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, "Dr Ann", profile.FullName)

		profile, err = client.SelectProfile(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, profile)
	})
}

func TestInitialSessionReflectsSignInDuringLookup(t *testing.T) {
	ctx := context.Background()
	client := New(Options{})
	defer client.Close()
	events := newEventLog()

	client.mu.Lock()
	id := client.nextID
	client.nextID++
	client.listeners[id] = events.listener
	client.mu.Unlock()

	// the lookup saw no session, then a sign-in finished before delivery
	client.signedIn(ctx, &responses.AuthSession{AccessToken: "tok-new", User: responses.AuthUser{ID: "u-1"}})
	client.deliverInitialSession(id, nil)

	got := events.wait(t, 2)
	assert.Equal(t, EventSignedIn, got[0].event)
	assert.Equal(t, EventInitialSession, got[1].event)
	require.NotNil(t, got[1].session)
	assert.Equal(t, "tok-new", got[1].session.AccessToken)
}

func TestInitialSessionReflectsSignOutDuringLookup(t *testing.T) {
	ctx := context.Background()
	client := New(Options{})
	defer client.Close()
	events := newEventLog()

	client.mu.Lock()
	id := client.nextID
	client.nextID++
	client.listeners[id] = events.listener
	client.mu.Unlock()

	stale := &responses.AuthSession{AccessToken: "tok-old", User: responses.AuthUser{ID: "u-1"}}
	require.NoError(t, client.SignOut(ctx))
	client.deliverInitialSession(id, stale)

	got := events.wait(t, 2)
	assert.Equal(t, EventSignedOut, got[0].event)
	assert.Equal(t, EventInitialSession, got[1].event)
	assert.Nil(t, got[1].session)
}

func TestSelectPatientsKeepsRowsWithBadCreatedAt(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"ok","data":[
			{"id":"p-1","name":"Jane","status":"Active","visitCount":2,"createdAt":"2024-06-14T12:00:00Z"},
			{"id":"p-2","name":"John","status":"Discharged","visitCount":1,"createdAt":"not-a-date"}
		]}`))
	}), nil)

	patients, err := client.SelectPatients(context.Background(), PatientQuery{})

	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.False(t, patients[0].CreatedAt.IsZero())
	assert.Equal(t, "John", patients[1].Name)
	assert.True(t, patients[1].CreatedAt.IsZero())
}

func TestUnreachableServer(t *testing.T) {
	client := New(Options{BaseURL: "http://127.0.0.1:1"})
	defer client.Close()

	_, err := client.SelectPatients(context.Background(), PatientQuery{})

	require.Error(t, err)
	assert.Zero(t, StatusCode(err))
	assert.Contains(t, Message(err), "cannot reach the server")
}
