package contracts

import (
	"context"
	"medrec-service/internal/app/models"
	"medrec-service/internal/pkg/dto/requests"
	"medrec-service/internal/pkg/dto/responses"
)

type PatientRepository interface {
	// Find returns matching rows ordered by createdAt, newest first.
	Find(ctx context.Context, filter models.PatientFilter) ([]models.Patient, error)
	FindByID(ctx context.Context, patientID string) (*models.Patient, error)
	Insert(ctx context.Context, patient *models.Patient) error
	Update(ctx context.Context, patientID string, changes models.PatientChanges) (*models.Patient, error)
	Delete(ctx context.Context, patientID string) (bool, error)
}

type PatientUsecase interface {
	ListPatients(ctx context.Context, session *models.Session, query *requests.PatientQuery) ([]models.Patient, error)
	CreatePatient(ctx context.Context, session *models.Session, request *requests.CreatePatient) (*models.Patient, error)
	UpdatePatient(ctx context.Context, session *models.Session, patientID string, request *requests.UpdatePatient) (*models.Patient, error)
	DeletePatient(ctx context.Context, session *models.Session, patientID string) error
	ExportPatients(ctx context.Context, session *models.Session) (*responses.PatientExport, error)
}
