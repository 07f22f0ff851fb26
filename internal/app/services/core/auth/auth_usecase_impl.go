package auth

import (
	"context"
	"errors"
	"medrec-service/internal/app/config"
	"medrec-service/internal/app/contracts"
	"medrec-service/internal/app/models"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/dto/requests"
	"medrec-service/internal/pkg/dto/responses"
	"medrec-service/internal/pkg/exceptions"
	"medrec-service/internal/pkg/utils"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tokenTypeBearer = "bearer"

type authUsecase struct {
	AuthIdentityRepository contracts.AuthIdentityRepository
	ProfileRepository      contracts.ProfileRepository
	SessionService         contracts.SessionService
	InternalConfig         *config.InternalConfig
	Log                    *zap.Logger
	now                    func() time.Time
}

func NewAuthUsecase(
	authIdentityRepository contracts.AuthIdentityRepository,
	profileRepository contracts.ProfileRepository,
	sessionService contracts.SessionService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AuthUsecase {
	return &authUsecase{
		AuthIdentityRepository: authIdentityRepository,
		ProfileRepository:      profileRepository,
		SessionService:         sessionService,
		InternalConfig:         internalConfig,
		Log:                    logger,
		now:                    time.Now,
	}
}

func (uc *authUsecase) SignUp(ctx context.Context, request *requests.SignUp) (*responses.AuthSession, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("authUsecase.SignUp called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEmailKey, request.Email),
	)

	existing, err := uc.AuthIdentityRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, exceptions.ErrEmailAlreadyUsed(nil)
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, exceptions.ErrHashPassword(err)
	}

	identity := &models.AuthIdentity{
		ID:           uuid.NewString(),
		Email:        request.Email,
		PasswordHash: hashedPassword,
		FullName:     request.FullName,
		Role:         models.ParseRole(request.Role),
		CreatedAt:    uc.now(),
	}
	err = uc.AuthIdentityRepository.Create(ctx, identity)
	if err != nil {
		return nil, err
	}

	// A failed profile write leaves the account usable; readers fall back
	// to the identity metadata.
	profile := &models.Profile{
		ID:        identity.ID,
		Email:     identity.Email,
		FullName:  identity.FullName,
		Role:      identity.Role,
		CreatedAt: identity.CreatedAt,
	}
	err = uc.ProfileRepository.Create(ctx, profile)
	if err != nil {
		uc.Log.Warn("authUsecase.SignUp profile row not created",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingUserIDKey, identity.ID),
			zap.Error(err),
		)
	}

	utils.LogBusinessEvent(uc.Log, "user_signed_up", requestID,
		zap.String(constvars.LoggingUserIDKey, identity.ID),
		zap.String(constvars.LoggingRoleKey, identity.Role.String()),
	)

	return uc.openSession(ctx, identity, identity.Role)
}

func (uc *authUsecase) SignInWithPassword(ctx context.Context, request *requests.SignIn) (*responses.AuthSession, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("authUsecase.SignInWithPassword called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEmailKey, request.Email),
	)

	identity, err := uc.AuthIdentityRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, err
	}
	if identity == nil || !utils.CheckPasswordHash(request.Password, identity.PasswordHash) {
		utils.LogSecurityEvent(uc.Log, "sign_in_rejected", requestID,
			zap.String(constvars.LoggingEmailKey, request.Email),
		)
		return nil, exceptions.ErrInvalidEmailOrPassword(nil)
	}

	role := identity.Role
	profile, err := uc.ProfileRepository.FindByID(ctx, identity.ID)
	if err != nil {
		uc.Log.Warn("authUsecase.SignInWithPassword profile lookup failed, using identity role",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingUserIDKey, identity.ID),
			zap.Error(err),
		)
	} else if profile != nil && profile.Role.Valid() {
		role = profile.Role
	}

	return uc.openSession(ctx, identity, role)
}

func (uc *authUsecase) ResolveSession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, exceptions.ErrTokenMissing(nil)
	}

	sessionID, err := utils.ParseJWT(token, uc.InternalConfig.JWT.Secret)
	if err != nil {
		return nil, err
	}

	session, err := uc.SessionService.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, exceptions.ErrSessionNotFound(errors.New("session expired or signed out"))
	}
	return session, nil
}

func (uc *authUsecase) GetSession(ctx context.Context, session *models.Session, token string) (*responses.AuthSession, error) {
	return buildAuthSession(session, token), nil
}

func (uc *authUsecase) SignOut(ctx context.Context, session *models.Session) error {
	requestID := utils.GetRequestID(ctx)

	err := uc.SessionService.DeleteSession(ctx, session.SessionID)
	if err != nil {
		return err
	}

	utils.LogBusinessEvent(uc.Log, "user_signed_out", requestID,
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)
	return nil
}

func (uc *authUsecase) openSession(ctx context.Context, identity *models.AuthIdentity, role models.Role) (*responses.AuthSession, error) {
	session := &models.Session{
		SessionID: uuid.NewString(),
		UserID:    identity.ID,
		Email:     identity.Email,
		FullName:  identity.FullName,
		Role:      role,
		ExpiresAt: uc.now().Add(uc.InternalConfig.SessionTTL()),
	}

	err := uc.SessionService.CreateSession(ctx, session)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateSessionJWT(session.SessionID, uc.InternalConfig.JWT.Secret, session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("authUsecase.openSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
		zap.String(constvars.LoggingRoleKey, session.Role.String()),
	)
	return buildAuthSession(session, token), nil
}

func buildAuthSession(session *models.Session, token string) *responses.AuthSession {
	return &responses.AuthSession{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   session.ExpiresAt.Unix(),
		User: responses.AuthUser{
			ID:    session.UserID,
			Email: session.Email,
			UserMetadata: responses.UserMetadata{
				FullName: session.FullName,
				Role:     session.Role.String(),
			},
		},
	}
}
