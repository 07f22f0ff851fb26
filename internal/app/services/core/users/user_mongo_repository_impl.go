package users

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

type ProfileMongoRepository struct {
	Collection *mongo.Collection
}

func NewProfileMongoRepository(db *mongo.Client, dbName string) contracts.ProfileRepository {
	return &ProfileMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionUsers),
	}
}

func (repo *ProfileMongoRepository) FindByID(ctx context.Context, userID string) (*models.Profile, error) {
	return repo.findOne(ctx, bson.M{"_id": userID})
}

func (repo *ProfileMongoRepository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return repo.findOne(ctx, bson.M{"email": email})
}

func (repo *ProfileMongoRepository) Create(ctx context.Context, profile *models.Profile) error {
	_, err := repo.Collection.InsertOne(ctx, profile)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *ProfileMongoRepository) findOne(ctx context.Context, filter bson.M) (*models.Profile, error) {
	var profile models.Profile
	err := repo.Collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &profile, nil
}
