package service

//go:generate go run go.uber.org/mock/mockgen -source=./dispatcher.go -destination=../mocks/dispatcher_mock.go -package=mocks

import (
	"context"

	"rental/config"
	"rental/infras/kafka"
	"rental/internal/domains/notification/model/dto"
	"rental/shared/constant"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Dispatcher informs the counterparty of a booking transition. Notify never
// blocks the caller and never reports failures.
type Dispatcher interface {
	Notify(ctx context.Context, event dto.Event)
}

type dispatcherImpl struct {
	kafka kafka.Client
	cfg   *config.Config
}

func NewDispatcher(kafka kafka.Client, cfg *config.Config) Dispatcher {
	return &dispatcherImpl{
		kafka: kafka,
		cfg:   cfg,
	}
}

func (d *dispatcherImpl) Notify(ctx context.Context, event dto.Event) {
	if len(event.RecipientIDs) == 0 {
		return
	}

	if event.ID == constant.Empty {
		event.ID = uuid.NewString()
	}

	go func() {
		c := context.WithoutCancel(ctx)

		err := d.kafka.SendMessages(c, d.cfg.Kafka.Topic.BookingEvents, kafka.Message{Key: event.ID, Value: event})
		if err != nil {
			log.Error().Err(err).Str("event", event.Type).Str("id", event.ID).Msg("failed to publish notification event")
		}
	}()
}
