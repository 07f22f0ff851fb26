package auth

import (
	"context"
	"errors"
	"medrec-service/internal/app/contracts"
	"medrec-service/internal/app/models"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuthIdentityMongoRepository struct {
	Collection *mongo.Collection
}

func NewAuthIdentityMongoRepository(db *mongo.Client, dbName string) contracts.AuthIdentityRepository {
	return &AuthIdentityMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionAuthUsers),
	}
}

func (repo *AuthIdentityMongoRepository) FindByEmail(ctx context.Context, email string) (*models.AuthIdentity, error) {
	var identity models.AuthIdentity
	err := repo.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&identity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &identity, nil
}

func (repo *AuthIdentityMongoRepository) Create(ctx context.Context, identity *models.AuthIdentity) error {
	_, err := repo.Collection.InsertOne(ctx, identity)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return exceptions.ErrEmailAlreadyUsed(err)
		}
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}
