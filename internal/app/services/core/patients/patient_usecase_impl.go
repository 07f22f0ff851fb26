package patients

import (
	"context"
	"medrec-service/internal/app/config"
	"medrec-service/internal/app/contracts"
	"medrec-service/internal/app/models"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/dto/requests"
	"medrec-service/internal/pkg/exceptions"
	"medrec-service/internal/pkg/utils"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type patientUsecase struct {
	PatientRepository contracts.PatientRepository
	Storage           contracts.Storage
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
	now               func() time.Time
}

func NewPatientUsecase(
	patientRepository contracts.PatientRepository,
	storage contracts.Storage,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PatientUsecase {
	return &patientUsecase{
		PatientRepository: patientRepository,
		Storage:           storage,
		InternalConfig:    internalConfig,
		Log:               logger,
		now:               time.Now,
	}
}

// ListPatients scopes doctors to their own rows whatever doctor_id they ask for.
func (uc *patientUsecase) ListPatients(ctx context.Context, session *models.Session, query *requests.PatientQuery) ([]models.Patient, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("patientUsecase.ListPatients called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
		zap.Any(constvars.LoggingRequestKey, query),
	)

	filter := models.PatientFilter{}
	if query.DoctorID != "" {
		filter.DoctorID = &query.DoctorID
	}
	if !session.IsAdmin() {
		doctorID := session.UserID
		filter.DoctorID = &doctorID
	}
	if query.Status != "" {
		status := models.PatientStatus(query.Status)
		filter.Status = &status
	}
	if query.FollowUpDate != "" {
		filter.FollowUpDate = &query.FollowUpDate
	}

	patients, err := uc.PatientRepository.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("patientUsecase.ListPatients succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(patients)),
	)
	return patients, nil
}

func (uc *patientUsecase) CreatePatient(ctx context.Context, session *models.Session, request *requests.CreatePatient) (*models.Patient, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("patientUsecase.CreatePatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)

	doctorID := request.DoctorID
	if !session.IsAdmin() {
		ownID := session.UserID
		doctorID = &ownID
	}

	patient := &models.Patient{
		ID:                 uuid.NewString(),
		Name:               request.Name,
		Age:                request.Age,
		Gender:             request.Gender,
		Email:              request.Email,
		Address:            request.Address,
		Disease:            request.Disease,
		DiseaseDescription: request.DiseaseDescription,
		VisitDate:          request.VisitDate,
		VisitCount:         request.VisitCount,
		DoctorNotes:        request.DoctorNotes,
		Status:             request.Status,
		DoctorID:           doctorID,
		CreatedAt:          uc.now().UTC().Truncate(time.Millisecond),
		FollowUpDate:       request.FollowUpDate,
	}
	if patient.Status != models.PatientStatusFollowUp {
		patient.FollowUpDate = nil
	}
	if !patient.HasConsistentFollowUp() {
		return nil, exceptions.ErrFollowUpDateRequired(nil)
	}

	err := uc.PatientRepository.Insert(ctx, patient)
	if err != nil {
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "patient_created", requestID,
		zap.String(constvars.LoggingPatientIDKey, patient.ID),
		zap.String(constvars.LoggingStatusKey, string(patient.Status)),
	)
	return patient, nil
}

func (uc *patientUsecase) UpdatePatient(ctx context.Context, session *models.Session, patientID string, request *requests.UpdatePatient) (*models.Patient, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("patientUsecase.UpdatePatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	existing, err := uc.findInScope(ctx, session, patientID)
	if err != nil {
		return nil, err
	}

	changes, err := BuildPatientChanges(existing, request)
	if err != nil {
		return nil, err
	}
	if changes.IsEmpty() {
		return existing, nil
	}

	patient, err := uc.PatientRepository.Update(ctx, patientID, changes)
	if err != nil {
		return nil, err
	}
	if !patient.HasConsistentFollowUp() {
		uc.Log.Warn("patientUsecase.UpdatePatient stored row has inconsistent follow-up date",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPatientIDKey, patient.ID),
			zap.String(constvars.LoggingStatusKey, string(patient.Status)),
		)
	}

	utils.LogBusinessEvent(uc.Log, "patient_updated", requestID,
		zap.String(constvars.LoggingPatientIDKey, patient.ID),
		zap.String(constvars.LoggingStatusKey, string(patient.Status)),
	)
	return patient, nil
}

func (uc *patientUsecase) DeletePatient(ctx context.Context, session *models.Session, patientID string) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("patientUsecase.DeletePatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	_, err := uc.findInScope(ctx, session, patientID)
	if err != nil {
		return err
	}

	deleted, err := uc.PatientRepository.Delete(ctx, patientID)
	if err != nil {
		return err
	}
	if !deleted {
		return exceptions.ErrPatientNotExist(nil)
	}

	utils.LogBusinessEvent(uc.Log, "patient_deleted", requestID,
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)
	return nil
}

// findInScope hides rows of other doctors behind a not found.
func (uc *patientUsecase) findInScope(ctx context.Context, session *models.Session, patientID string) (*models.Patient, error) {
	patient, err := uc.PatientRepository.FindByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, exceptions.ErrPatientNotExist(nil)
	}
	if !session.IsAdmin() && (patient.DoctorID == nil || *patient.DoctorID != session.UserID) {
		return nil, exceptions.ErrPatientNotExist(nil)
	}
	return patient, nil
}

// BuildPatientChanges turns a partial update into set/unset operations and
// keeps followUpDate present exactly when the resulting status is Follow-Up.
// A date sent with any other status is dropped.
func BuildPatientChanges(existing *models.Patient, request *requests.UpdatePatient) (models.PatientChanges, error) {
	changes := models.PatientChanges{Set: map[string]interface{}{}}

	if request.Name != nil {
		changes.Set["name"] = *request.Name
	}
	if request.Age != nil {
		changes.Set["age"] = *request.Age
	}
	if request.Gender != nil {
		changes.Set["gender"] = string(*request.Gender)
	}
	if request.Email != nil {
		changes.Set["email"] = *request.Email
	}
	if request.Address != nil {
		changes.Set["address"] = *request.Address
	}
	if request.Disease != nil {
		changes.Set["disease"] = *request.Disease
	}
	if request.DiseaseDescription != nil {
		changes.Set["diseaseDescription"] = *request.DiseaseDescription
	}
	if request.VisitDate != nil {
		changes.Set["visitDate"] = *request.VisitDate
	}
	if request.VisitCount != nil {
		changes.Set["visitCount"] = *request.VisitCount
	}
	if request.DoctorNotes != nil {
		changes.Set["doctorNotes"] = *request.DoctorNotes
	}

	status := existing.Status
	if request.Status != nil {
		status = *request.Status
		changes.Set["status"] = string(status)
	}

	if status == models.PatientStatusFollowUp {
		switch {
		case request.FollowUpDate != nil:
			changes.Set["followUpDate"] = *request.FollowUpDate
		case existing.Status == models.PatientStatusFollowUp && existing.FollowUpDate != nil:
			// stored date stays
		default:
			return models.PatientChanges{}, exceptions.ErrFollowUpDateRequired(nil)
		}
	} else if existing.FollowUpDate != nil {
		changes.Unset = append(changes.Unset, "followUpDate")
	}

	return changes, nil
}
