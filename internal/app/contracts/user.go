package contracts

import (
	"context"
	"medrec-service/internal/app/models"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, userID string) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
}

type UserUsecase interface {
	GetProfile(ctx context.Context, session *models.Session, userID string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, session *models.Session, email string) (*models.Profile, error)
}
