package patientlist

import (
	"testing"
	"time"

	"medrec-service/internal/app/models"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAggregates(t *testing.T) {
	// 2024-06-15 is a Saturday; the week began on Sunday 2024-06-09
	patients := samplePatients()
	patients[0].CreatedAt = time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	patients[1].CreatedAt = time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	patients[2].CreatedAt = time.Date(2024, 6, 8, 23, 59, 0, 0, time.UTC)
	patients[3].CreatedAt = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	agg := ComputeAggregates(patients, today)

	assert.Equal(t, 4, agg.Total)
	assert.Equal(t, map[models.PatientStatus]int{
		models.PatientStatusActive:     1,
		models.PatientStatusDischarged: 2,
		models.PatientStatusFollowUp:   1,
	}, agg.ByStatus)
	assert.Equal(t, 7, agg.TotalVisits)
	assert.Equal(t, 1, agg.TodayActive)
	assert.Equal(t, 2, agg.ThisWeek)
	assert.Equal(t, 1, agg.PreviousWeek)
	assert.InDelta(t, 100.0, agg.GrowthPercent, 0.001)
}

func TestComputeAggregatesCountsRowWithBadCreatedAt(t *testing.T) {
	var patients []models.Patient
	err := json.Unmarshal([]byte(`[
		{"id":"p-1","status":"Active","visitCount":2,"visitDate":"2024-06-15","createdAt":"2024-06-10T08:00:00Z"},
		{"id":"p-2","status":"Discharged","visitCount":3,"visitDate":"2024-06-15","createdAt":"garbage"}
	]`), &patients)
	require.NoError(t, err)

	agg := ComputeAggregates(patients, today)

	assert.Equal(t, 2, agg.Total)
	assert.Equal(t, 1, agg.ByStatus[models.PatientStatusDischarged])
	assert.Equal(t, 5, agg.TotalVisits)
	assert.Equal(t, 1, agg.ThisWeek)
	assert.Zero(t, agg.PreviousWeek)
}

func TestComputeAggregatesEmpty(t *testing.T) {
	agg := ComputeAggregates(nil, today)

	assert.Zero(t, agg.Total)
	assert.Len(t, agg.ByStatus, 3)
	assert.Zero(t, agg.GrowthPercent)
}

func TestGrowth(t *testing.T) {
	assert.Equal(t, 100.0, growth(3, 0))
	assert.Equal(t, 0.0, growth(0, 0))
	assert.Equal(t, -50.0, growth(1, 2))
	assert.Equal(t, 50.0, growth(3, 2))
}
