// Package guard decides what a role-restricted route shows for the current
// auth state.
package guard

import (
	"errors"
	"fmt"
	"medrec-service/internal/app/models"
	"medrec-service/internal/client/authsync"
)

var ErrNoHomeRoute = errors.New("guard: no home route for role")

type Outcome int

const (
	RenderLoading Outcome = iota
	RenderContent
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case RenderLoading:
		return "loading"
	case RenderContent:
		return "content"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// Decision is the result of guarding one route. Target is set for Redirect.
type Decision struct {
	Outcome Outcome
	Target  string
}

type Routes struct {
	SignIn string
	Homes  map[models.Role]string
}

// DefaultRoutes sends doctors to /doctor and admins to /dashboard.
func DefaultRoutes() Routes {
	return Routes{
		SignIn: "/signin",
		Homes: map[models.Role]string{
			models.RoleDoctor: "/doctor",
			models.RoleAdmin:  "/dashboard",
		},
	}
}

type Guard struct {
	routes Routes
}

// New refuses a route table that leaves any role without a home.
func New(routes Routes) (*Guard, error) {
	if routes.SignIn == "" {
		return nil, errors.New("guard: sign-in route is empty")
	}
	homes := make(map[models.Role]string, len(routes.Homes))
	for _, role := range models.Roles {
		home, ok := routes.Homes[role]
		if !ok || home == "" {
			return nil, fmt.Errorf("%w: %s", ErrNoHomeRoute, role)
		}
		homes[role] = home
	}
	return &Guard{routes: Routes{SignIn: routes.SignIn, Homes: homes}}, nil
}

// Decide never fetches anything; it is a function of state alone.
func (g *Guard) Decide(state authsync.State, allowed ...models.Role) (Decision, error) {
	if state.Loading {
		return Decision{Outcome: RenderLoading}, nil
	}
	user := state.CurrentUser
	if user == nil {
		return Decision{Outcome: Redirect, Target: g.routes.SignIn}, nil
	}
	for _, role := range allowed {
		if user.Role == role {
			return Decision{Outcome: RenderContent}, nil
		}
	}
	home, err := g.Home(user.Role)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Outcome: Redirect, Target: home}, nil
}

func (g *Guard) Home(role models.Role) (string, error) {
	home, ok := g.routes.Homes[role]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoHomeRoute, role)
	}
	return home, nil
}

func (g *Guard) SignIn() string {
	return g.routes.SignIn
}
