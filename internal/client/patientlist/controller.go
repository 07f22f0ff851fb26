// Package patientlist holds the dashboard's patient list: fetching it with
// the right scope, filtering and summarizing it, and writing changes back.
package patientlist

import (
	"context"
	"medrec-service/internal/app/models"
	"medrec-service/internal/client/sdk"
	"medrec-service/internal/pkg/constvars"
	"sync"

	"go.uber.org/zap"
)

type Snapshot struct {
	Patients []models.Patient
	Loading  bool
	// Error is the last fetch failure as shown to the user; empty after a
	// successful fetch.
	Error string
}

type Controller struct {
	backend   Backend
	mutations *Mutations
	log       *zap.Logger

	mu       sync.RWMutex
	patients []models.Patient
	loading  bool
	errMsg   string
}

func NewController(backend Backend, logger *zap.Logger) *Controller {
	return &Controller{
		backend:   backend,
		mutations: NewMutations(backend),
		log:       logger,
		patients:  make([]models.Patient, 0),
	}
}

// ScopeFor limits doctors to their own rows; admins see everything.
func ScopeFor(viewer models.CurrentUser) sdk.PatientQuery {
	if viewer.Role == models.RoleDoctor {
		return sdk.PatientQuery{DoctorID: viewer.ID}
	}
	return sdk.PatientQuery{}
}

// Fetch replaces the list on success. On failure the previous list stays
// and the message is kept for display.
func (c *Controller) Fetch(ctx context.Context, viewer models.CurrentUser) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	patients, err := c.backend.SelectPatients(ctx, ScopeFor(viewer))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.errMsg = sdk.Message(err)
		c.log.Warn("patientlist: fetch failed",
			zap.String(constvars.LoggingUserIDKey, viewer.ID),
			zap.Error(err),
		)
		return err
	}
	c.patients = patients
	c.errMsg = ""
	c.log.Debug("patientlist: fetched",
		zap.String(constvars.LoggingUserIDKey, viewer.ID),
		zap.Int(constvars.LoggingCountKey, len(patients)),
	)
	return nil
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	patients := make([]models.Patient, len(c.patients))
	copy(patients, c.patients)
	return Snapshot{Patients: patients, Loading: c.loading, Error: c.errMsg}
}

// Create prepends the stored row, matching the newest-first order.
func (c *Controller) Create(ctx context.Context, input NewPatient) (*models.Patient, error) {
	created, err := c.mutations.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.patients = append([]models.Patient{*created}, c.patients...)
	return created, nil
}

func (c *Controller) UpdateStatus(ctx context.Context, patientID string, status models.PatientStatus, followUpDate string) (*models.Patient, error) {
	updated, err := c.mutations.UpdateStatus(ctx, patientID, status, followUpDate)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.patients {
		if c.patients[i].ID == patientID {
			c.patients[i] = *updated
			break
		}
	}
	return updated, nil
}

func (c *Controller) Delete(ctx context.Context, patientID string) error {
	err := c.mutations.Delete(ctx, patientID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := make([]models.Patient, 0, len(c.patients))
	for _, patient := range c.patients {
		if patient.ID != patientID {
			kept = append(kept, patient)
		}
	}
	c.patients = kept
	return nil
}
