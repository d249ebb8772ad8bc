package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	portalkafka "campus-portal/internal/kafka"
	"campus-portal/internal/logger"
	"campus-portal/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func TestPublishRegistrationCompleted(t *testing.T) {
	writer := new(MockWriter)
	producer := &portalkafka.Producer{Writer: writer, Topic: "portal.registrations.completed", Logger: logger.NewWithWriter(io.Discard)}

	event := models.RegistrationEvent{
		RegistrationID: "reg-1",
		EventID:        "ai",
		EventTitle:     "AI Workshop",
		Surface:        models.SurfaceEvents,
		AttendeeCount:  50,
		Capacity:       50,
		CompletedAt:    time.Date(2025, time.March, 10, 9, 0, 1, 0, time.UTC),
	}

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != "ai" {
			return false
		}
		var got models.RegistrationEvent
		return json.Unmarshal(msgs[0].Value, &got) == nil && got.RegistrationID == "reg-1"
	})).Return(nil)

	require.NoError(t, producer.PublishRegistrationCompleted(context.Background(), event))
	writer.AssertExpectations(t)
}

func TestPublishRegistrationCompleted_WriterError(t *testing.T) {
	writer := new(MockWriter)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	producer := &portalkafka.Producer{Writer: writer, Topic: "t", Logger: logger.NewWithWriter(io.Discard)}

	err := producer.PublishRegistrationCompleted(context.Background(), models.RegistrationEvent{EventID: "ai"})
	assert.EqualError(t, err, "broker down")
}
