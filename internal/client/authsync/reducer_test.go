package authsync

import (
	"errors"
	"testing"

	"medrec-service/internal/app/models"
	"medrec-service/internal/client/sdk"
	"medrec-service/internal/pkg/dto/responses"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annSession() *responses.AuthSession {
	return &responses.AuthSession{
		AccessToken: "tok",
		User: responses.AuthUser{
			ID:           "u-1",
			Email:        "ann@example.com",
			UserMetadata: responses.UserMetadata{FullName: "Ann Lee", Role: "admin"},
		},
	}
}

func TestReduceSignedOut(t *testing.T) {
	start := model{state: State{CurrentUser: &models.CurrentUser{ID: "u-1"}}, generation: 3}

	next, effects := reduce(start, sessionNotified{event: sdk.EventSignedOut})

	assert.Equal(t, State{Loading: false, Ready: true}, next.state)
	assert.Equal(t, uint64(4), next.generation)
	assert.True(t, next.notified)
	assert.Equal(t, []effect{clearStore{}}, effects)
}

func TestReduceSessionStartsLookup(t *testing.T) {
	start := model{state: State{Loading: true}}

	next, effects := reduce(start, sessionNotified{event: sdk.EventInitialSession, session: annSession()})

	require.Len(t, effects, 1)
	lookup, ok := effects[0].(lookupProfile)
	require.True(t, ok)
	assert.Equal(t, next.generation, lookup.generation)
	assert.Equal(t, "u-1", lookup.user.ID)
	assert.True(t, next.state.Loading)
}

func TestReduceFetchIgnoredAfterNotification(t *testing.T) {
	start := model{state: State{Ready: true}, generation: 2, notified: true}

	next, effects := reduce(start, sessionFetched{session: annSession()})

	assert.Equal(t, start, next)
	assert.Empty(t, effects)
}

func TestReduceFetchFailureSignsOut(t *testing.T) {
	next, effects := reduce(model{state: State{Loading: true}}, sessionFetched{err: errors.New("offline")})

	assert.Nil(t, next.state.CurrentUser)
	assert.True(t, next.state.Ready)
	assert.False(t, next.state.Loading)
	assert.Equal(t, []effect{clearStore{}}, effects)
}

func TestReduceStaleProfileDropped(t *testing.T) {
	start := model{state: State{Ready: true}, generation: 5}

	next, effects := reduce(start, profileLoaded{generation: 4, user: annSession().User})

	assert.Equal(t, start, next)
	assert.Empty(t, effects)
}

func TestReduceProfileLoaded(t *testing.T) {
	start := model{state: State{Loading: true}, generation: 1}
	profile := &models.Profile{ID: "u-1", Email: "ann@example.com", FullName: "Dr Ann Lee", Role: models.RoleDoctor}

	next, effects := reduce(start, profileLoaded{generation: 1, user: annSession().User, profile: profile})

	want := models.CurrentUser{ID: "u-1", Email: "ann@example.com", FullName: "Dr Ann Lee", Role: models.RoleDoctor}
	assert.Equal(t, State{CurrentUser: &want, Loading: false, Ready: true}, next.state)
	assert.Equal(t, []effect{persistUser{user: want}}, effects)
}

func TestResolveUser(t *testing.T) {
	t.Run("metadata when profile is missing", func(t *testing.T) {
		user := resolveUser(annSession().User, nil, nil)
		assert.Equal(t, "Ann Lee", user.FullName)
		assert.Equal(t, models.RoleAdmin, user.Role)
	})

	t.Run("metadata when lookup failed", func(t *testing.T) {
		user := resolveUser(annSession().User, &models.Profile{FullName: "ignored"}, errors.New("timeout"))
		assert.Equal(t, "Ann Lee", user.FullName)
	})

	t.Run("email local part and doctor role", func(t *testing.T) {
		bare := responses.AuthUser{ID: "u-2", Email: "bob.smith@example.com"}
		user := resolveUser(bare, nil, nil)
		assert.Equal(t, "bob.smith", user.FullName)
		assert.Equal(t, models.RoleDoctor, user.Role)
	})

	t.Run("unknown profile role", func(t *testing.T) {
		user := resolveUser(annSession().User, &models.Profile{FullName: "Ann", Role: "nurse"}, nil)
		assert.Equal(t, models.RoleDoctor, user.Role)
		assert.Equal(t, "ann@example.com", user.Email)
	})
}
