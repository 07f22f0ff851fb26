package users

import (
	"context"
	"medrec-service/internal/app/contracts"
	"medrec-service/internal/app/models"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/exceptions"
	"medrec-service/internal/pkg/utils"
	"strings"

	"go.uber.org/zap"
)

type userUsecase struct {
	ProfileRepository contracts.ProfileRepository
	Log               *zap.Logger
}

func NewUserUsecase(profileRepository contracts.ProfileRepository, logger *zap.Logger) contracts.UserUsecase {
	return &userUsecase{
		ProfileRepository: profileRepository,
		Log:               logger,
	}
}

// GetProfile lets a user read their own row; admins can read any row.
func (uc *userUsecase) GetProfile(ctx context.Context, session *models.Session, userID string) (*models.Profile, error) {
	uc.Log.Info("userUsecase.GetProfile called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingUserIDKey, userID),
	)

	if session.UserID != userID && !session.IsAdmin() {
		return nil, exceptions.ErrRoleNotAllowed(nil, session.Role.String())
	}

	profile, err := uc.ProfileRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, exceptions.ErrProfileNotExist(nil)
	}
	return profile, nil
}

func (uc *userUsecase) GetProfileByEmail(ctx context.Context, session *models.Session, email string) (*models.Profile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	uc.Log.Info("userUsecase.GetProfileByEmail called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingEmailKey, email),
	)

	if !strings.EqualFold(session.Email, email) && !session.IsAdmin() {
		return nil, exceptions.ErrRoleNotAllowed(nil, session.Role.String())
	}

	profile, err := uc.ProfileRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, exceptions.ErrProfileNotExist(nil)
	}
	return profile, nil
}
