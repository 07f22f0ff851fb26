package contracts

import (
	"context"
	"medrec-service/internal/app/models"
)

type ReminderPublisher interface {
	PublishFollowUpReminder(ctx context.Context, reminder *models.FollowUpReminder) error
}
