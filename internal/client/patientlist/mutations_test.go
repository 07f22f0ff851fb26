package patientlist

import (
	"testing"

	"medrec-service/internal/app/models"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCreateRequest(t *testing.T) {
	t.Run("defaults and trimming", func(t *testing.T) {
		request, err := BuildCreateRequest(NewPatient{
			Name:      "  Jane Doe ",
			Gender:    models.GenderFemale,
			Email:     "   ",
			Address:   " 12 Main St ",
			Disease:   " Flu ",
			VisitDate: "2024-06-15",
		})

		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", request.Name)
		assert.Equal(t, models.PatientStatusActive, request.Status)
		assert.Equal(t, 1, request.VisitCount)
		assert.Nil(t, request.Email)
		assert.Equal(t, "12 Main St", *request.Address)
		assert.Equal(t, "Flu", request.Disease)
		assert.Nil(t, request.FollowUpDate)
		assert.Nil(t, request.DoctorID)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := BuildCreateRequest(NewPatient{Name: "   "})
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("follow-up needs a date", func(t *testing.T) {
		_, err := BuildCreateRequest(NewPatient{Name: "Jane", Status: models.PatientStatusFollowUp})
		assert.ErrorIs(t, err, ErrFollowUpDateRequired)
	})

	t.Run("follow-up date is checked", func(t *testing.T) {
		_, err := BuildCreateRequest(NewPatient{Name: "Jane", Status: models.PatientStatusFollowUp, FollowUpDate: "2024-06-15T10:00:00Z"})
		assert.ErrorIs(t, err, ErrInvalidFollowUpDate)
	})

	t.Run("follow-up date dropped for other statuses", func(t *testing.T) {
		request, err := BuildCreateRequest(NewPatient{Name: "Jane", Status: models.PatientStatusDischarged, FollowUpDate: "2024-06-15"})
		require.NoError(t, err)
		assert.Nil(t, request.FollowUpDate)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := BuildCreateRequest(NewPatient{Name: "Jane", Status: "Archived"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestBuildStatusPatch(t *testing.T) {
	t.Run("discharged sends null follow-up date", func(t *testing.T) {
		patch, err := BuildStatusPatch(models.PatientStatusDischarged, "2024-06-15")
		require.NoError(t, err)

		raw, err := json.Marshal(patch)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"Discharged","followUpDate":null}`, string(raw))
	})

	t.Run("follow-up carries the date", func(t *testing.T) {
		patch, err := BuildStatusPatch(models.PatientStatusFollowUp, " 2024-06-15 ")
		require.NoError(t, err)
		assert.Equal(t, models.PatientStatusFollowUp, *patch.Status)
		assert.Equal(t, "2024-06-15", *patch.FollowUpDate)
	})

	t.Run("follow-up without date", func(t *testing.T) {
		_, err := BuildStatusPatch(models.PatientStatusFollowUp, "")
		assert.ErrorIs(t, err, ErrFollowUpDateRequired)
	})
}
