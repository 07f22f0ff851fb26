package guard

import (
	"testing"

	"medrec-service/internal/app/models"
	"medrec-service/internal/client/authsync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIn(role models.Role) authsync.State {
	return authsync.State{CurrentUser: &models.CurrentUser{ID: "u-1", Role: role}, Ready: true}
}

func TestDecide(t *testing.T) {
	g, err := New(DefaultRoutes())
	require.NoError(t, err)

	tests := []struct {
		name    string
		state   authsync.State
		allowed []models.Role
		want    Decision
	}{
		{
			name:    "loading",
			state:   authsync.State{Loading: true},
			allowed: []models.Role{models.RoleDoctor},
			want:    Decision{Outcome: RenderLoading},
		},
		{
			name:    "signed out",
			state:   authsync.State{Ready: true},
			allowed: []models.Role{models.RoleDoctor},
			want:    Decision{Outcome: Redirect, Target: "/signin"},
		},
		{
			name:    "allowed role",
			state:   signedIn(models.RoleDoctor),
			allowed: []models.Role{models.RoleDoctor},
			want:    Decision{Outcome: RenderContent},
		},
		{
			name:    "admin on a doctor route",
			state:   signedIn(models.RoleAdmin),
			allowed: []models.Role{models.RoleDoctor},
			want:    Decision{Outcome: Redirect, Target: "/dashboard"},
		},
		{
			name:    "doctor on an admin route",
			state:   signedIn(models.RoleDoctor),
			allowed: []models.Role{models.RoleAdmin},
			want:    Decision{Outcome: Redirect, Target: "/doctor"},
		},
		{
			name:    "cached user before ready",
			state:   authsync.State{CurrentUser: &models.CurrentUser{ID: "u-1", Role: models.RoleAdmin}},
			allowed: []models.Role{models.RoleAdmin},
			want:    Decision{Outcome: RenderContent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Decide(tt.state, tt.allowed...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecideUnknownRole(t *testing.T) {
	g, err := New(DefaultRoutes())
	require.NoError(t, err)

	_, err = g.Decide(signedIn("nurse"), models.RoleAdmin)
	assert.ErrorIs(t, err, ErrNoHomeRoute)
}

func TestNewRejectsIncompleteRoutes(t *testing.T) {
	_, err := New(Routes{SignIn: "/signin", Homes: map[models.Role]string{models.RoleDoctor: "/doctor"}})
	assert.ErrorIs(t, err, ErrNoHomeRoute)

	_, err = New(Routes{Homes: DefaultRoutes().Homes})
	assert.Error(t, err)
}

func TestNewCopiesRoutes(t *testing.T) {
	routes := DefaultRoutes()
	g, err := New(routes)
	require.NoError(t, err)

	routes.Homes[models.RoleAdmin] = "/elsewhere"

	home, err := g.Home(models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", home)
	assert.Equal(t, "/signin", g.SignIn())
	assert.Equal(t, "redirect", Redirect.String())
}
