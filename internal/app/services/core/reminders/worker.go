package reminders

import (
	"context"
	"fmt"
	"medrec-service/internal/app/contracts"
	"medrec-service/internal/app/models"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/utils"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sentMarkerTTL = 36 * time.Hour

// Worker publishes one reminder per doctor for the follow-ups due today.
// Each doctor is reminded at most once per calendar day across instances.
type Worker struct {
	log       *zap.Logger
	locker    contracts.LockerService
	redisRepo contracts.RedisRepository
	patients  contracts.PatientRepository
	publisher contracts.ReminderPublisher
	interval  time.Duration
	now       func() time.Time
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewWorker(
	log *zap.Logger,
	lockerSvc contracts.LockerService,
	redisRepo contracts.RedisRepository,
	patients contracts.PatientRepository,
	publisher contracts.ReminderPublisher,
	interval time.Duration,
) *Worker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Worker{
		log:       log,
		locker:    lockerSvc,
		redisRepo: redisRepo,
		patients:  patients,
		publisher: publisher,
		interval:  interval,
		now:       time.Now,
		stop:      make(chan struct{}),
	}
}

// Start runs the ticker loop until ctx ends or stop is called. stop waits
// for the loop to exit.
func (w *Worker) Start(ctx context.Context) (stop func()) {
	ticker := time.NewTicker(w.interval)
	stopped := make(chan struct{})

	w.log.Info("follow-up reminder worker started", zap.Duration("interval", w.interval))

	go func() {
		defer close(stopped)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.stop:
				return
			case <-ticker.C:
				if _, err := w.RunOnce(ctx); err != nil {
					w.log.Error("follow-up reminder run failed", zap.Error(err))
				}
			}
		}
	}()

	return func() {
		w.stopOnce.Do(func() { close(w.stop) })
		<-stopped
	}
}

// RunOnce returns how many reminders it published.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	now := w.now()

	ttl := w.interval - time.Second
	if ttl < time.Second {
		ttl = time.Second
	}
	acquired, lockVal, err := w.locker.TryLock(ctx, constvars.RedisReminderLockKey, ttl)
	if err != nil {
		return 0, err
	}
	if !acquired {
		w.log.Info("follow-up reminder lock held by another instance")
		return 0, nil
	}
	defer func() {
		if err := w.locker.Unlock(ctx, constvars.RedisReminderLockKey, lockVal); err != nil {
			w.log.Error("follow-up reminder unlock failed", zap.Error(err))
		}
	}()

	today := utils.FormatDate(now)
	status := models.PatientStatusFollowUp
	due, err := w.patients.Find(ctx, models.PatientFilter{Status: &status, FollowUpDate: &today})
	if err != nil {
		return 0, err
	}

	published := 0
	for _, reminder := range GroupReminders(due, today, now) {
		markerKey := fmt.Sprintf("followup:reminder:sent:%s:%s", reminder.DoctorID, today)
		first, err := w.redisRepo.TrySetNX(ctx, markerKey, reminder.ID, sentMarkerTTL)
		if err != nil {
			return published, err
		}
		if !first {
			continue
		}

		err = w.publisher.PublishFollowUpReminder(ctx, reminder)
		if err != nil {
			// let the next tick retry this doctor
			if delErr := w.redisRepo.Delete(ctx, markerKey); delErr != nil {
				w.log.Error("follow-up reminder marker rollback failed",
					zap.String(constvars.LoggingDoctorIDKey, reminder.DoctorID),
					zap.String(constvars.LoggingFollowUpDateKey, today),
					zap.Error(delErr),
				)
			}
			return published, err
		}
		published++
	}

	w.log.Info("follow-up reminder run completed",
		zap.String(constvars.LoggingFollowUpDateKey, today),
		zap.Int(constvars.LoggingCountKey, published),
	)
	return published, nil
}

// GroupReminders builds one reminder per doctor in doctor id order. Rows
// without a doctor are skipped.
func GroupReminders(patients []models.Patient, date string, now time.Time) []*models.FollowUpReminder {
	byDoctor := map[string]*models.FollowUpReminder{}
	for _, patient := range patients {
		if patient.DoctorID == nil || *patient.DoctorID == "" {
			continue
		}
		doctorID := *patient.DoctorID
		reminder, ok := byDoctor[doctorID]
		if !ok {
			reminder = &models.FollowUpReminder{
				ID:        uuid.NewString(),
				DoctorID:  doctorID,
				Date:      date,
				CreatedAt: now,
			}
			byDoctor[doctorID] = reminder
		}
		reminder.PatientIDs = append(reminder.PatientIDs, patient.ID)
		reminder.PatientNames = append(reminder.PatientNames, patient.Name)
	}

	doctorIDs := make([]string, 0, len(byDoctor))
	for doctorID := range byDoctor {
		doctorIDs = append(doctorIDs, doctorID)
	}
	sort.Strings(doctorIDs)

	reminders := make([]*models.FollowUpReminder, 0, len(doctorIDs))
	for _, doctorID := range doctorIDs {
		reminders = append(reminders, byDoctor[doctorID])
	}
	return reminders
}
