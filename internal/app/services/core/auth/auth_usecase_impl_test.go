package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"medrec-service/internal/app/config"
	"medrec-service/internal/app/models"
	"medrec-service/internal/pkg/dto/requests"
	"medrec-service/internal/pkg/exceptions"
	"medrec-service/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAuthIdentityRepository struct {
	mock.Mock
}

func (m *MockAuthIdentityRepository) FindByEmail(ctx context.Context, email string) (*models.AuthIdentity, error) {
	args := m.Called(ctx, email)
	identity, _ := args.Get(0).(*models.AuthIdentity)
	return identity, args.Error(1)
}

func (m *MockAuthIdentityRepository) Create(ctx context.Context, identity *models.AuthIdentity) error {
	return m.Called(ctx, identity).Error(0)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*models.Profile)
	return profile, args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	args := m.Called(ctx, email)
	profile, _ := args.Get(0).(*models.Profile)
	return profile, args.Error(1)
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) CreateSession(ctx context.Context, session *models.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	args := m.Called(ctx, sessionID)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

func (m *MockSessionService) DeleteSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

const testSecret = "test-secret"

type authFixture struct {
	identities *MockAuthIdentityRepository
	profiles   *MockProfileRepository
	sessions   *MockSessionService
	usecase    *authUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		identities: new(MockAuthIdentityRepository),
		profiles:   new(MockProfileRepository),
		sessions:   new(MockSessionService),
	}
	cfg := &config.InternalConfig{
		App: config.App{SessionExpiredTimeInHours: 2},
		JWT: config.JWT{Secret: testSecret},
	}
	f.usecase = NewAuthUsecase(f.identities, f.profiles, f.sessions, cfg, zap.NewNop()).(*authUsecase)
	return f
}

func TestSignUp(t *testing.T) {
	request := &requests.SignUp{Email: "dr.who@example.com", Password: "tardis-123", FullName: "Dr Who", Role: "admin"}

	t.Run("creates identity profile and session", func(t *testing.T) {
		f := newAuthFixture()
		f.identities.On("FindByEmail", mock.Anything, request.Email).Return(nil, nil).Once()
		f.identities.On("Create", mock.Anything, mock.MatchedBy(func(identity *models.AuthIdentity) bool {
			return identity.Role == models.RoleAdmin && identity.PasswordHash != request.Password
		})).Return(nil).Once()
		f.profiles.On("Create", mock.Anything, mock.AnythingOfType("*models.Profile")).Return(nil).Once()
		f.sessions.On("CreateSession", mock.Anything, mock.AnythingOfType("*models.Session")).Return(nil).Once()

		session, err := f.usecase.SignUp(context.Background(), request)

		require.NoError(t, err)
		assert.Equal(t, "bearer", session.TokenType)
		assert.Equal(t, "Dr Who", session.User.UserMetadata.FullName)
		assert.Equal(t, "admin", session.User.UserMetadata.Role)

		sessionID, err := utils.ParseJWT(session.AccessToken, testSecret)
		require.NoError(t, err)
		assert.NotEmpty(t, sessionID)
		f.identities.AssertExpectations(t)
		f.profiles.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture()
		f.identities.On("FindByEmail", mock.Anything, request.Email).Return(&models.AuthIdentity{ID: "u-1"}, nil).Once()

		_, err := f.usecase.SignUp(context.Background(), request)

		assert.Equal(t, http.StatusConflict, exceptions.StatusCodeOf(err))
		f.identities.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("profile failure does not fail sign up", func(t *testing.T) {
		f := newAuthFixture()
		f.identities.On("FindByEmail", mock.Anything, request.Email).Return(nil, nil).Once()
		f.identities.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		f.profiles.On("Create", mock.Anything, mock.Anything).Return(errors.New("write conflict")).Once()
		f.sessions.On("CreateSession", mock.Anything, mock.Anything).Return(nil).Once()

		session, err := f.usecase.SignUp(context.Background(), request)

		require.NoError(t, err)
		assert.NotEmpty(t, session.AccessToken)
	})
}

func TestSignInWithPassword(t *testing.T) {
	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	identity := &models.AuthIdentity{ID: "u-1", Email: "a@b.co", PasswordHash: hash, FullName: "Ann", Role: models.RoleDoctor}

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		f.identities.On("FindByEmail", mock.Anything, "a@b.co").Return(identity, nil).Once()

		_, err := f.usecase.SignInWithPassword(context.Background(), &requests.SignIn{Email: "a@b.co", Password: "nope"})

		assert.Equal(t, http.StatusUnauthorized, exceptions.StatusCodeOf(err))
		f.sessions.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture()
		f.identities.On("FindByEmail", mock.Anything, "x@b.co").Return(nil, nil).Once()

		_, err := f.usecase.SignInWithPassword(context.Background(), &requests.SignIn{Email: "x@b.co", Password: "whatever"})
		assert.Equal(t, http.StatusUnauthorized, exceptions.StatusCodeOf(err))
	})

	t.Run("profile role wins", func(t *testing.T) {
		f := newAuthFixture()
		f.identities.On("FindByEmail", mock.Anything, "a@b.co").Return(identity, nil).Once()
		f.profiles.On("FindByID", mock.Anything, "u-1").Return(&models.Profile{ID: "u-1", Role: models.RoleAdmin}, nil).Once()
		f.sessions.On("CreateSession", mock.Anything, mock.MatchedBy(func(session *models.Session) bool {
			return session.Role == models.RoleAdmin && session.UserID == "u-1"
		})).Return(nil).Once()

		session, err := f.usecase.SignInWithPassword(context.Background(), &requests.SignIn{Email: "a@b.co", Password: "correct-horse"})

		require.NoError(t, err)
		assert.Equal(t, "admin", session.User.UserMetadata.Role)
		f.sessions.AssertExpectations(t)
	})

	t.Run("profile lookup failure falls back to identity role", func(t *testing.T) {
		f := newAuthFixture()
		f.identities.On("FindByEmail", mock.Anything, "a@b.co").Return(identity, nil).Once()
		f.profiles.On("FindByID", mock.Anything, "u-1").Return(nil, errors.New("timeout")).Once()
		f.sessions.On("CreateSession", mock.Anything, mock.Anything).Return(nil).Once()

		session, err := f.usecase.SignInWithPassword(context.Background(), &requests.SignIn{Email: "a@b.co", Password: "correct-horse"})

		require.NoError(t, err)
		assert.Equal(t, "doctor", session.User.UserMetadata.Role)
	})
}

func TestResolveSession(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.usecase.ResolveSession(context.Background(), "")
		assert.Equal(t, http.StatusUnauthorized, exceptions.StatusCodeOf(err))
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.usecase.ResolveSession(context.Background(), "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, exceptions.StatusCodeOf(err))
	})

	t.Run("signed out session", func(t *testing.T) {
		f := newAuthFixture()
		token, err := utils.GenerateSessionJWT("s-1", testSecret, time.Now().Add(time.Hour))
		require.NoError(t, err)
		f.sessions.On("GetSession", mock.Anything, "s-1").Return(nil, nil).Once()

		_, err = f.usecase.ResolveSession(context.Background(), token)
		assert.Equal(t, http.StatusUnauthorized, exceptions.StatusCodeOf(err))
	})

	t.Run("live session", func(t *testing.T) {
		f := newAuthFixture()
		token, err := utils.GenerateSessionJWT("s-1", testSecret, time.Now().Add(time.Hour))
		require.NoError(t, err)
		stored := &models.Session{SessionID: "s-1", UserID: "u-1", Role: models.RoleDoctor}
		f.sessions.On("GetSession", mock.Anything, "s-1").Return(stored, nil).Once()

		session, err := f.usecase.ResolveSession(context.Background(), token)

		require.NoError(t, err)
		assert.Equal(t, stored, session)
	})
}

func TestSignOut(t *testing.T) {
	f := newAuthFixture()
	f.sessions.On("DeleteSession", mock.Anything, "s-1").Return(nil).Once()

	err := f.usecase.SignOut(context.Background(), &models.Session{SessionID: "s-1", UserID: "u-1"})

	require.NoError(t, err)
	f.sessions.AssertExpectations(t)
}
