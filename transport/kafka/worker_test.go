package kafka_test

import (
	"errors"
	"testing"

	"rental/config"
	kafkaMocks "rental/infras/kafka/mocks"
	"rental/infras/otel/mocks"
	"rental/internal/handlers/notification"
	"rental/transport/kafka"

	"go.uber.org/mock/gomock"
)

func TestWorker_Run(t *testing.T) {
	tests := []struct {
		name       string
		consumeErr error
		closeErr   error
	}{
		{name: "consumer stops cleanly"},
		{name: "consumer fails", consumeErr: errors.New("no brokers")},
		{name: "close fails", closeErr: errors.New("writer closed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := kafkaMocks.NewMockClient(ctrl)

			cfg := &config.Config{}
			cfg.Kafka.ConsumerGroup = "rental-worker"
			cfg.Kafka.Topic.BookingEvents = "booking-events"

			gomock.InOrder(
				client.EXPECT().Consume(gomock.Any(), "rental-worker", "booking-events", gomock.Any()).Return(tt.consumeErr),
				client.EXPECT().Close().Return(tt.closeErr),
			)

			worker := kafka.New(cfg, client, kafka.Consumers{
				Notification: notification.NewConsumer(nil, mocks.NewOtel()),
			}, mocks.NewOtel())

			worker.Run()
		})
	}
}
