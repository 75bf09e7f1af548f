//go:build wireinject
// +build wireinject

package di

import (
	"resort/config"
	"resort/infras/broker"
	"resort/infras/jwt"
	"resort/infras/otel"
	"resort/infras/postgres"
	"resort/infras/redis"
	"resort/infras/s3"
	"resort/permissions"
	"resort/shared/cache"
	"resort/shared/event"
	"resort/transport/http"
	"resort/transport/http/middleware"
	"resort/transport/http/router"

	"github.com/google/wire"

	activityRepository "resort/internal/domains/activity/repository"
	activityService "resort/internal/domains/activity/service"
	authService "resort/internal/domains/auth/service"
	newsletterRepository "resort/internal/domains/newsletter/repository"
	newsletterService "resort/internal/domains/newsletter/service"
	"resort/internal/domains/notification/consumer"
	notificationRepository "resort/internal/domains/notification/repository"
	notificationService "resort/internal/domains/notification/service"
	reservationRepository "resort/internal/domains/reservation/repository"
	reservationService "resort/internal/domains/reservation/service"
	resourceRepository "resort/internal/domains/resource/repository"
	resourceService "resort/internal/domains/resource/service"
	restaurantRepository "resort/internal/domains/restaurant/repository"
	restaurantService "resort/internal/domains/restaurant/service"
	staffRepository "resort/internal/domains/staff/repository"
	staffService "resort/internal/domains/staff/service"
	userRepository "resort/internal/domains/user/repository"
	userService "resort/internal/domains/user/service"

	activityHandler "resort/internal/handlers/activity"
	authHandler "resort/internal/handlers/auth"
	healthHandler "resort/internal/handlers/health"
	newsletterHandler "resort/internal/handlers/newsletter"
	notificationHandler "resort/internal/handlers/notification"
	reservationHandler "resort/internal/handlers/reservation"
	resourceHandler "resort/internal/handlers/resource"
	restaurantHandler "resort/internal/handlers/restaurant"
	staffHandler "resort/internal/handlers/staff"
	userHandler "resort/internal/handlers/user"
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
	s3.New,
	broker.New,
	wire.Bind(new(event.Publisher), new(event.Broker)),
	wire.Bind(new(event.Subscriber), new(event.Broker)),
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	ProvideMetrics,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var userDomain = wire.NewSet(
	userService.New,
)

var resourceDomain = wire.NewSet(
	resourceRepository.New,
	resourceService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var activityDomain = wire.NewSet(
	activityRepository.New,
	activityService.New,
)

var restaurantDomain = wire.NewSet(
	restaurantRepository.New,
	restaurantService.New,
)

var staffDomain = wire.NewSet(
	staffRepository.New,
	staffService.New,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.New,
)

var newsletterDomain = wire.NewSet(
	newsletterRepository.New,
	newsletterService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	resourceDomain,
	reservationDomain,
	activityDomain,
	restaurantDomain,
	staffDomain,
	notificationDomain,
	newsletterDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.NewStatus,
	healthHandler.New,
	authHandler.New,
	userHandler.New,
	resourceHandler.New,
	reservationHandler.New,
	activityHandler.New,
	restaurantHandler.New,
	staffHandler.New,
	notificationHandler.New,
	newsletterHandler.New,
	router.New,
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

func InitializeWorker() *Worker {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		broker.New,
		wire.Bind(new(event.Subscriber), new(event.Broker)),
		ProvideMetrics,
		notificationDomain,
		consumer.NewReservationConsumer,
		wire.Struct(new(Worker), "*"),
	)

	return &Worker{}
}
