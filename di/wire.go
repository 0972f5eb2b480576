//go:build wireinject
// +build wireinject

package di

import (
	"rental/config"
	"rental/infras/jwt"
	"rental/infras/kafka"
	"rental/infras/otel"
	"rental/infras/postgres"
	"rental/infras/push"
	"rental/infras/redis"
	"rental/infras/s3"
	"rental/infras/stripe"
	"rental/permissions"
	"rental/shared/cache"
	gRepo "rental/shared/repository"
	"rental/transport/http"
	"rental/transport/http/middleware"
	"rental/transport/http/router"
	kafkaTransport "rental/transport/kafka"

	"github.com/google/wire"

	authService "rental/internal/domains/auth/service"
	bookingRepository "rental/internal/domains/booking/repository"
	bookingService "rental/internal/domains/booking/service"
	listingRepository "rental/internal/domains/listing/repository"
	listingService "rental/internal/domains/listing/service"
	notificationRepository "rental/internal/domains/notification/repository"
	notificationService "rental/internal/domains/notification/service"
	paymentRepository "rental/internal/domains/payment/repository"
	paymentService "rental/internal/domains/payment/service"
	reviewRepository "rental/internal/domains/review/repository"
	userRepository "rental/internal/domains/user/repository"
	userService "rental/internal/domains/user/service"

	authHandler "rental/internal/handlers/auth"
	bookingHandler "rental/internal/handlers/booking"
	listingHandler "rental/internal/handlers/listing"
	notificationHandler "rental/internal/handlers/notification"
	paymentHandler "rental/internal/handlers/payment"
	userHandler "rental/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	stripe.New,
	push.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	gRepo.NewTransaction,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
	userService.New,
)

var listingDomain = wire.NewSet(
	listingRepository.New,
	listingService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.New,
	notificationService.NewDispatcher,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	reviewRepository.New,
	bookingService.NewAvailability,
	bookingService.New,
)

var domains = wire.NewSet(
	authDomain,
	listingDomain,
	paymentDomain,
	notificationDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	listingHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	notificationHandler.New,
	router.New,
)

var consuming = wire.NewSet(
	wire.Struct(new(kafkaTransport.Consumers), "*"),
	notificationHandler.NewConsumer,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *kafkaTransport.Worker {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		redis.New,
		kafka.New,
		push.New,
		cache.NewRedisCache,
		notificationRepository.New,
		notificationService.New,
		consuming,
		kafkaTransport.New,
	)

	return &kafkaTransport.Worker{}
}
