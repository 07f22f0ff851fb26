package authsync

import (
	"medrec-service/internal/app/models"
	"medrec-service/internal/client/sdk"
	"medrec-service/internal/pkg/dto/responses"
	"strings"
)

// State is what the rest of the dashboard sees of the signed-in user.
// Loading is true until the first answer is known; Ready flips once and
// stays true.
type State struct {
	CurrentUser *models.CurrentUser
	Loading     bool
	Ready       bool
}

type message interface{ isMessage() }

type sessionNotified struct {
	event   sdk.AuthEvent
	session *responses.AuthSession
}

type sessionFetched struct {
	session *responses.AuthSession
	err     error
}

type profileLoaded struct {
	generation uint64
	user       responses.AuthUser
	profile    *models.Profile
	err        error
}

func (sessionNotified) isMessage() {}
func (sessionFetched) isMessage()  {}
func (profileLoaded) isMessage()   {}

type effect interface{ isEffect() }

type persistUser struct{ user models.CurrentUser }

type clearStore struct{}

type lookupProfile struct {
	generation uint64
	user       responses.AuthUser
}

func (persistUser) isEffect()   {}
func (clearStore) isEffect()    {}
func (lookupProfile) isEffect() {}

type model struct {
	state State
	// generation advances on every auth transition. Each advance either
	// settles the state at once or schedules a lookup tagged with it.
	generation uint64
	// notified is set once the provider has spoken; the explicit fetch
	// is ignored from then on.
	notified bool
}

func reduce(m model, msg message) (model, []effect) {
	switch msg := msg.(type) {
	case sessionNotified:
		m.notified = true
		if msg.event == sdk.EventSignedOut || msg.session == nil {
			return signOut(m)
		}
		return startLookup(m, msg.session)

	case sessionFetched:
		if m.notified {
			return m, nil
		}
		if msg.err != nil || msg.session == nil {
			return signOut(m)
		}
		return startLookup(m, msg.session)

	case profileLoaded:
		if msg.generation != m.generation {
			return m, nil
		}
		user := resolveUser(msg.user, msg.profile, msg.err)
		m.state = State{CurrentUser: &user, Loading: false, Ready: true}
		return m, []effect{persistUser{user: user}}
	}
	return m, nil
}

func signOut(m model) (model, []effect) {
	m.generation++
	m.state = State{CurrentUser: nil, Loading: false, Ready: true}
	return m, []effect{clearStore{}}
}

func startLookup(m model, session *responses.AuthSession) (model, []effect) {
	m.generation++
	return m, []effect{lookupProfile{generation: m.generation, user: session.User}}
}

// resolveUser prefers the profile row and falls back to the session's
// metadata when the row is missing or could not be read.
func resolveUser(user responses.AuthUser, profile *models.Profile, err error) models.CurrentUser {
	if err == nil && profile != nil {
		resolved := models.CurrentUser{
			ID:       user.ID,
			Email:    profile.Email,
			FullName: profile.FullName,
			Role:     models.ParseRole(profile.Role.String()),
		}
		if resolved.Email == "" {
			resolved.Email = user.Email
		}
		if resolved.FullName == "" {
			resolved.FullName = emailLocalPart(resolved.Email)
		}
		return resolved
	}

	fullName := user.UserMetadata.FullName
	if fullName == "" {
		fullName = emailLocalPart(user.Email)
	}
	return models.CurrentUser{
		ID:       user.ID,
		Email:    user.Email,
		FullName: fullName,
		Role:     models.ParseRole(user.UserMetadata.Role),
	}
}

func emailLocalPart(email string) string {
	if at := strings.IndexByte(email, '@'); at >= 0 {
		return email[:at]
	}
	return email
}
