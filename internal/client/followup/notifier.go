// Package followup tells a doctor how many patients are due for a
// follow-up today.
package followup

import (
	"context"
	"medrec-service/internal/app/models"
	"medrec-service/internal/client/sdk"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Backend interface {
	SelectPatients(ctx context.Context, query sdk.PatientQuery) ([]models.Patient, error)
}

type Alert struct {
	Count   int
	Visible bool
	Date    string
}

// Notifier compares follow-up dates as plain strings against today's date
// in the notifier's location; rows stored in another zone can be missed.
type Notifier struct {
	backend Backend
	log     *zap.Logger
	now     func() time.Time

	mu    sync.RWMutex
	alert Alert
}

func New(backend Backend, logger *zap.Logger, location *time.Location) *Notifier {
	if location == nil {
		location = time.Local
	}
	return &Notifier{
		backend: backend,
		log:     logger,
		now:     func() time.Time { return time.Now().In(location) },
	}
}

// Load replaces the count. A positive count makes the alert visible again
// even if it was dismissed before.
func (n *Notifier) Load(ctx context.Context, doctorID string) (Alert, error) {
	today := utils.FormatDate(n.now())
	patients, err := n.backend.SelectPatients(ctx, sdk.PatientQuery{
		DoctorID:     doctorID,
		FollowUpDate: today,
	})
	if err != nil {
		n.log.Warn("followup: load failed",
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return n.Alert(), err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.alert = Alert{Count: len(patients), Visible: len(patients) > 0, Date: today}
	n.log.Debug("followup: loaded",
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.String(constvars.LoggingFollowUpDateKey, today),
		zap.Int(constvars.LoggingCountKey, len(patients)),
	)
	return n.alert, nil
}

// Dismiss hides the alert until the next Load. It changes no patient.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alert.Visible = false
}

func (n *Notifier) Alert() Alert {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.alert
}

// Run loads immediately and then every interval until ctx is done. onLoad
// receives each successful result.
func (n *Notifier) Run(ctx context.Context, doctorID string, interval time.Duration, onLoad func(Alert)) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if alert, err := n.Load(ctx, doctorID); err == nil && onLoad != nil {
			onLoad(alert)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
