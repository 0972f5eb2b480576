package notification

import (
	"context"
	"rental/infras/kafka"
	"rental/infras/otel"
	"rental/internal/domains/notification/model/dto"
	"rental/internal/domains/notification/service"
	"rental/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Consumer feeds booking events from the queue to the notification inbox.
type Consumer struct {
	service service.Notification
	otel    otel.Otel
}

func NewConsumer(service service.Notification, otel otel.Otel) Consumer {
	return Consumer{
		service: service,
		otel:    otel,
	}
}

// Handle skips undecodable or addressless events so they are committed
// instead of retried.
func (consumer *Consumer) Handle(ctx context.Context, message kafkaGo.Message) error {
	ctx, scope := consumer.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".HandleBookingEvent")
	defer scope.End()

	event, err := kafka.DecodeKafkaMessage[dto.Event](message)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("offset", message.Offset).Msg("dropping undecodable booking event")

		return nil
	}

	if event.ID == constant.Empty || len(event.RecipientIDs) == 0 {
		log.Warn().Str("event", event.ID).Int64("offset", message.Offset).Msg("dropping booking event without recipients")

		return nil
	}

	if err := consumer.service.Deliver(ctx, event); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("event", event.ID).Msg("failed to deliver booking event")

		return err
	}

	scope.AddEvent("Booking event " + event.ID + " delivered")

	return nil
}
