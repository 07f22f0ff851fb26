package reminderqueue

import (
	"context"
	"medrec-service/internal/app/contracts"
	"medrec-service/internal/app/models"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Service publishes follow-up reminders to a durable queue.
type Service struct {
	ch        Channel
	log       *zap.Logger
	queueName string
	mu        sync.Mutex
}

func NewService(conn *amqp.Connection, log *zap.Logger, queueName string) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	return NewServiceWithChannel(ch, log, queueName)
}

func NewServiceWithChannel(ch Channel, log *zap.Logger, queueName string) (*Service, error) {
	if queueName == "" {
		queueName = constvars.RabbitMQReminderQueue
	}

	_, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	)
	if err != nil {
		return nil, err
	}

	return &Service{
		ch:        ch,
		log:       log,
		queueName: queueName,
	}, nil
}

var _ contracts.ReminderPublisher = (*Service)(nil)

func (s *Service) PublishFollowUpReminder(ctx context.Context, reminder *models.FollowUpReminder) error {
	body, err := json.Marshal(reminder)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	// amqp channels are not safe for concurrent publishes
	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.ch.PublishWithContext(ctx, "", s.queueName, false, false, amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    reminder.ID,
		Timestamp:    reminder.CreatedAt,
		Body:         body,
		Headers: amqp.Table{
			"doctor_id": reminder.DoctorID,
		},
	})
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, s.queueName)
	}

	s.log.Info("reminderqueue.Service.PublishFollowUpReminder published",
		zap.String(constvars.LoggingQueueNameKey, s.queueName),
		zap.String(constvars.LoggingDoctorIDKey, reminder.DoctorID),
		zap.Int(constvars.LoggingCountKey, len(reminder.PatientIDs)),
	)
	return nil
}

func (s *Service) Close() error {
	return s.ch.Close()
}
