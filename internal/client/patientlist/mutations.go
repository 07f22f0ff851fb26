package patientlist

import (
	"context"
	"errors"
	"medrec-service/internal/app/models"
	"medrec-service/internal/client/sdk"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/dto/requests"
	"medrec-service/internal/pkg/utils"
	"strings"
)

var (
	ErrNameRequired         = errors.New("patient name is required")
	ErrInvalidStatus        = errors.New("unknown patient status")
	ErrFollowUpDateRequired = errors.New("follow-up date is required for Follow-Up status")
	ErrInvalidFollowUpDate  = errors.New("follow-up date must be YYYY-MM-DD")
)

// Backend is the slice of the SDK the patient list needs.
type Backend interface {
	SelectPatients(ctx context.Context, query sdk.PatientQuery) ([]models.Patient, error)
	InsertPatient(ctx context.Context, patient *requests.CreatePatient) (*models.Patient, error)
	UpdatePatient(ctx context.Context, patientID string, patch *requests.UpdatePatient) (*models.Patient, error)
	DeletePatient(ctx context.Context, patientID string) error
}

// NewPatient is the raw input of the add patient form.
type NewPatient struct {
	Name               string
	Age                int
	Gender             models.Gender
	Email              string
	Address            string
	Disease            string
	DiseaseDescription string
	VisitDate          string
	VisitCount         int
	DoctorNotes        string
	Status             models.PatientStatus
	DoctorID           string
	FollowUpDate       string
}

// BuildCreateRequest trims input, turns blank optionals into nil and fills
// the Active status and a visit count of 1 when they are unset.
func BuildCreateRequest(input NewPatient) (*requests.CreatePatient, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	status := input.Status
	if status == "" {
		status = models.PatientStatusActive
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	visitCount := input.VisitCount
	if visitCount <= 0 {
		visitCount = 1
	}

	followUpDate, err := followUpFor(status, input.FollowUpDate)
	if err != nil {
		return nil, err
	}

	return &requests.CreatePatient{
		Name:               name,
		Age:                input.Age,
		Gender:             input.Gender,
		Email:              blankToNil(input.Email),
		Address:            blankToNil(input.Address),
		Disease:            strings.TrimSpace(input.Disease),
		DiseaseDescription: blankToNil(input.DiseaseDescription),
		VisitDate:          strings.TrimSpace(input.VisitDate),
		VisitCount:         visitCount,
		DoctorNotes:        blankToNil(input.DoctorNotes),
		Status:             status,
		DoctorID:           blankToNil(input.DoctorID),
		FollowUpDate:       followUpDate,
	}, nil
}

// BuildStatusPatch always carries followUpDate, as null for every status
// other than Follow-Up.
func BuildStatusPatch(status models.PatientStatus, followUpDate string) (*requests.UpdatePatient, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	date, err := followUpFor(status, followUpDate)
	if err != nil {
		return nil, err
	}
	return &requests.UpdatePatient{Status: &status, FollowUpDate: date}, nil
}

func followUpFor(status models.PatientStatus, raw string) (*string, error) {
	if status != models.PatientStatusFollowUp {
		return nil, nil
	}
	date := strings.TrimSpace(raw)
	if date == "" {
		return nil, ErrFollowUpDateRequired
	}
	if _, ok := utils.ParseDate(date); !ok || len(date) != len(constvars.DateLayout) {
		return nil, ErrInvalidFollowUpDate
	}
	return &date, nil
}

func blankToNil(value string) *string {
	return utils.NilIfBlank(&value)
}

// Mutations writes patients through the backend. Nothing here touches a
// local list; Controller merges results after success.
type Mutations struct {
	backend Backend
}

func NewMutations(backend Backend) *Mutations {
	return &Mutations{backend: backend}
}

func (m *Mutations) Create(ctx context.Context, input NewPatient) (*models.Patient, error) {
	request, err := BuildCreateRequest(input)
	if err != nil {
		return nil, err
	}
	return m.backend.InsertPatient(ctx, request)
}

func (m *Mutations) UpdateStatus(ctx context.Context, patientID string, status models.PatientStatus, followUpDate string) (*models.Patient, error) {
	patch, err := BuildStatusPatch(status, followUpDate)
	if err != nil {
		return nil, err
	}
	return m.backend.UpdatePatient(ctx, patientID, patch)
}

func (m *Mutations) Delete(ctx context.Context, patientID string) error {
	return m.backend.DeletePatient(ctx, patientID)
}
