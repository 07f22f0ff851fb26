package main

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"medrec-service/internal/app/config"
	"medrec-service/internal/app/models"
	"medrec-service/internal/client/followup"
	"medrec-service/internal/client/patientlist"
	"medrec-service/internal/client/sdk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type dueFollowUps struct {
	patients []models.Patient
}

func (b dueFollowUps) SelectPatients(ctx context.Context, query sdk.PatientQuery) ([]models.Patient, error) {
	return b.patients, nil
}

func TestRenderPatients(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var out bytes.Buffer
		renderPatients(&out, nil)
		assert.Equal(t, "No patients.\n", out.String())
	})

	t.Run("rows", func(t *testing.T) {
		followUp := "2024-06-20"
		var out bytes.Buffer
		renderPatients(&out, []models.Patient{
			{ID: "p-1", Name: "John Smith", Age: 52, Status: models.PatientStatusFollowUp, FollowUpDate: &followUp},
			{ID: "p-2", Name: "Jane Doe", Status: models.PatientStatusActive},
		})

		assert.Contains(t, out.String(), "John Smith")
		assert.Contains(t, out.String(), "2024-06-20")
		assert.Contains(t, out.String(), "Jane Doe")
	})
}

func TestRenderAggregates(t *testing.T) {
	var out bytes.Buffer
	renderAggregates(&out, patientlist.Aggregates{
		Total:         3,
		ByStatus:      map[models.PatientStatus]int{models.PatientStatusActive: 2, models.PatientStatusFollowUp: 1},
		ThisWeek:      3,
		GrowthPercent: 100,
	})

	assert.Contains(t, out.String(), "Follow-Up")
	assert.Contains(t, out.String(), "100.0%")
}

func TestWatchFollowUpsDismissAndQuit(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := dueFollowUps{patients: []models.Patient{{ID: "p-1"}, {ID: "p-2"}}}
	d := &dashboard{
		cfg:       &config.ClientConfig{FollowUpPollInterval: time.Hour},
		followups: followup.New(backend, zap.NewNop(), time.UTC),
	}
	in, input := io.Pipe()
	var out bytes.Buffer
	done := make(chan struct{})

	go func() {
		defer close(done)
		d.watchFollowUps(context.Background(), in, &out, models.CurrentUser{ID: "doc-1", Role: models.RoleDoctor})
	}()

	require.Eventually(t, func() bool { return d.followups.Alert().Visible }, time.Second, 5*time.Millisecond)
	_, err := io.WriteString(input, "d\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return !d.followups.Alert().Visible }, time.Second, 5*time.Millisecond)

	_, err = io.WriteString(input, "q\n")
	require.NoError(t, err)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not stop on q")
	}
	require.NoError(t, input.Close())

	assert.Contains(t, out.String(), "2 patient(s) due for follow-up today")
	assert.Contains(t, out.String(), "Follow-up alert dismissed.")
	assert.Equal(t, 2, d.followups.Alert().Count)
}

func TestWatchFollowUpsStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := &dashboard{
		cfg:       &config.ClientConfig{FollowUpPollInterval: time.Hour},
		followups: followup.New(dueFollowUps{}, zap.NewNop(), time.UTC),
	}
	in, input := io.Pipe()
	defer input.Close()
	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		d.watchFollowUps(ctx, in, &out, models.CurrentUser{ID: "doc-1", Role: models.RoleDoctor})
	}()

	require.Eventually(t, func() bool { return d.followups.Alert().Date != "" }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not stop on cancel")
	}
	assert.Contains(t, out.String(), "No follow-ups due today")
}
