package kafka

import (
	"context"
	"os"
	"os/signal"
	"rental/config"
	"rental/infras/kafka"
	"rental/infras/otel"
	"rental/internal/handlers/notification"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const flushTimeout = 5 * time.Second

type Consumers struct {
	Notification notification.Consumer
}

// Worker runs every topic subscription until SIGINT or SIGTERM.
type Worker struct {
	Config    *config.Config
	Client    kafka.Client
	Consumers Consumers
	Otel      otel.Otel
}

func New(cfg *config.Config, client kafka.Client, consumers Consumers, ot otel.Otel) *Worker {
	return &Worker{
		Config:    cfg,
		Client:    client,
		Consumers: consumers,
		Otel:      ot,
	}
}

type subscription struct {
	topic   string
	handler kafka.Handler
}

func (w *Worker) subscriptions() []subscription {
	return []subscription{
		{topic: w.Config.Kafka.Topic.BookingEvents, handler: w.Consumers.Notification.Handle},
	}
}

func (w *Worker) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	for _, sub := range w.subscriptions() {
		wg.Add(1)

		go func(sub subscription) {
			defer wg.Done()

			log.Info().Str("topic", sub.topic).Str("group", w.Config.Kafka.ConsumerGroup).Msg("Starting Kafka consumer.")

			if err := w.Client.Consume(ctx, w.Config.Kafka.ConsumerGroup, sub.topic, sub.handler); err != nil {
				log.Error().Err(err).Str("topic", sub.topic).Msg("Kafka consumer stopped.")
			}
		}(sub)
	}

	wg.Wait()

	if err := w.Client.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Kafka client.")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := w.Otel.Shutdown(flushCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces.")
	}

	log.Info().Msg("Worker shut down.")
}
