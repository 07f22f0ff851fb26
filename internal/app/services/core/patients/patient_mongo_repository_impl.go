package patients

import (
	"context"
	"errors"
	"medrec-service/internal/app/contracts"
	"medrec-service/internal/app/models"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PatientMongoRepository struct {
	Collection *mongo.Collection
}

func NewPatientMongoRepository(db *mongo.Client, dbName string) contracts.PatientRepository {
	return &PatientMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionPatients),
	}
}

func (repo *PatientMongoRepository) Find(ctx context.Context, filter models.PatientFilter) ([]models.Patient, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := repo.Collection.Find(ctx, filter.ConvertToBsonM(), findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	patients := make([]models.Patient, 0)
	err = cursor.All(ctx, &patients)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return patients, nil
}

func (repo *PatientMongoRepository) FindByID(ctx context.Context, patientID string) (*models.Patient, error) {
	var patient models.Patient
	err := repo.Collection.FindOne(ctx, bson.M{"_id": patientID}).Decode(&patient)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &patient, nil
}

func (repo *PatientMongoRepository) Insert(ctx context.Context, patient *models.Patient) error {
	_, err := repo.Collection.InsertOne(ctx, patient)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *PatientMongoRepository) Update(ctx context.Context, patientID string, changes models.PatientChanges) (*models.Patient, error) {
	update := bson.M{}
	if len(changes.Set) > 0 {
		update["$set"] = bson.M(changes.Set)
	}
	if len(changes.Unset) > 0 {
		unset := bson.M{}
		for _, field := range changes.Unset {
			unset[field] = ""
		}
		update["$unset"] = unset
	}

	updateOptions := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var patient models.Patient
	err := repo.Collection.FindOneAndUpdate(ctx, bson.M{"_id": patientID}, update, updateOptions).Decode(&patient)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, exceptions.ErrPatientNotExist(err)
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &patient, nil
}

func (repo *PatientMongoRepository) Delete(ctx context.Context, patientID string) (bool, error) {
	result, err := repo.Collection.DeleteOne(ctx, bson.M{"_id": patientID})
	if err != nil {
		return false, exceptions.ErrMongoDBDeleteDocument(err)
	}
	return result.DeletedCount > 0, nil
}
