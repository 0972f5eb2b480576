package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"rental/infras/otel/mocks"
	"rental/internal/domains/notification/model/dto"
	"rental/internal/handlers/notification"
	gDto "rental/shared/dto"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

type recordingService struct {
	delivered []dto.Event
	err       error
}

func (r *recordingService) GetAll(_ context.Context, _ gDto.QueryParams) (dto.GetNotificationsResponse, error) {
	return dto.GetNotificationsResponse{}, nil
}

func (r *recordingService) MarkRead(_ context.Context, _ string) error {
	return nil
}

func (r *recordingService) Deliver(_ context.Context, event dto.Event) error {
	r.delivered = append(r.delivered, event)

	return r.err
}

func encode(t *testing.T, event dto.Event) kafkaGo.Message {
	t.Helper()

	value, err := json.Marshal(event)
	assert.NoError(t, err)

	return kafkaGo.Message{Key: []byte(event.ID), Value: value}
}

func TestConsumer_Handle(t *testing.T) {
	event := dto.Event{
		ID:           "evt-1",
		Type:         "booking.created",
		RecipientIDs: []string{"owner-1"},
		Title:        "New booking request",
	}

	tests := []struct {
		name          string
		message       kafkaGo.Message
		deliverErr    error
		wantErr       bool
		wantDelivered int
	}{
		{name: "delivers the event", message: encode(t, event), wantDelivered: 1},
		{name: "delivery failure is retried", message: encode(t, event), deliverErr: errors.New("db down"), wantErr: true, wantDelivered: 1},
		{name: "undecodable payload is dropped", message: kafkaGo.Message{Value: []byte("{not json")}},
		{name: "event without recipients is dropped", message: encode(t, dto.Event{ID: "evt-2"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &recordingService{err: tt.deliverErr}
			consumer := notification.NewConsumer(svc, mocks.NewOtel())

			err := consumer.Handle(context.Background(), tt.message)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.Len(t, svc.delivered, tt.wantDelivered)
		})
	}
}
