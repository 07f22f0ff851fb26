package contracts

import (
	"context"
	"medrec-service/internal/app/models"
	"medrec-service/internal/pkg/dto/requests"
	"medrec-service/internal/pkg/dto/responses"
)

type AuthIdentityRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.AuthIdentity, error)
	Create(ctx context.Context, identity *models.AuthIdentity) error
}

type AuthUsecase interface {
	SignUp(ctx context.Context, request *requests.SignUp) (*responses.AuthSession, error)
	SignInWithPassword(ctx context.Context, request *requests.SignIn) (*responses.AuthSession, error)
	// ResolveSession maps a bearer token to its live session.
	ResolveSession(ctx context.Context, token string) (*models.Session, error)
	GetSession(ctx context.Context, session *models.Session, token string) (*responses.AuthSession, error)
	SignOut(ctx context.Context, session *models.Session) error
}
