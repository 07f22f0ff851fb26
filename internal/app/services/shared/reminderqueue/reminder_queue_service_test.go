package reminderqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"medrec-service/internal/app/models"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	keys       []string
	publishErr error
	closed     bool
}

func (c *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	c.declared = append(c.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestPublishFollowUpReminder(t *testing.T) {
	reminder := &models.FollowUpReminder{
		ID:           "r-1",
		DoctorID:     "doc-1",
		Date:         "2024-06-15",
		PatientIDs:   []string{"p-1", "p-2"},
		PatientNames: []string{"Jane", "John"},
		CreatedAt:    time.Date(2024, 6, 15, 7, 0, 0, 0, time.UTC),
	}

	t.Run("declares the default queue and publishes persistently", func(t *testing.T) {
		ch := &fakeChannel{}
		svc, err := NewServiceWithChannel(ch, zap.NewNop(), "")
		require.NoError(t, err)

		require.NoError(t, svc.PublishFollowUpReminder(context.Background(), reminder))

		require.Len(t, ch.published, 1)
		assert.NotEmpty(t, ch.declared)
		assert.Equal(t, ch.declared[0], ch.keys[0])

		msg := ch.published[0]
		assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
		assert.Equal(t, "r-1", msg.MessageId)
		assert.Equal(t, "doc-1", msg.Headers["doctor_id"])

		var decoded models.FollowUpReminder
		require.NoError(t, json.Unmarshal(msg.Body, &decoded))
		assert.Equal(t, []string{"p-1", "p-2"}, decoded.PatientIDs)
	})

	t.Run("publish failure", func(t *testing.T) {
		ch := &fakeChannel{publishErr: errors.New("channel closed")}
		svc, err := NewServiceWithChannel(ch, zap.NewNop(), "reminders")
		require.NoError(t, err)

		assert.Error(t, svc.PublishFollowUpReminder(context.Background(), reminder))
	})

	t.Run("close closes the channel", func(t *testing.T) {
		ch := &fakeChannel{}
		svc, err := NewServiceWithChannel(ch, zap.NewNop(), "reminders")
		require.NoError(t, err)

		require.NoError(t, svc.Close())
		assert.True(t, ch.closed)
	})
}
