//go:build wireinject
// +build wireinject

package di

import (
	"gearshare/config"
	"gearshare/infras/jwt"
	"gearshare/infras/kafka"
	"gearshare/infras/otel"
	"gearshare/infras/postgres"
	"gearshare/infras/redis"
	"gearshare/infras/s3"
	"gearshare/permissions"
	"gearshare/shared/cache"
	"gearshare/shared/clock"
	"gearshare/transport/http"
	"gearshare/transport/http/middleware"
	"gearshare/transport/http/router"

	"github.com/google/wire"

	authService "gearshare/internal/domains/auth/service"
	commentRepository "gearshare/internal/domains/comment/repository"
	commentService "gearshare/internal/domains/comment/service"
	itemRepository "gearshare/internal/domains/item/repository"
	itemService "gearshare/internal/domains/item/service"
	photoRepository "gearshare/internal/domains/photo/repository"
	photoService "gearshare/internal/domains/photo/service"
	requestRepository "gearshare/internal/domains/request/repository"
	requestService "gearshare/internal/domains/request/service"
	reservationRepository "gearshare/internal/domains/reservation/repository"
	reservationService "gearshare/internal/domains/reservation/service"
	userRepository "gearshare/internal/domains/user/repository"
	userService "gearshare/internal/domains/user/service"

	authHandler "gearshare/internal/handlers/auth"
	commentHandler "gearshare/internal/handlers/comment"
	itemHandler "gearshare/internal/handlers/item"
	photoHandler "gearshare/internal/handlers/photo"
	requestHandler "gearshare/internal/handlers/request"
	reservationHandler "gearshare/internal/handlers/reservation"
	userHandler "gearshare/internal/handlers/user"
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
	clock.System,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	authService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var itemDomain = wire.NewSet(
	itemRepository.New,
	itemService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var commentDomain = wire.NewSet(
	commentRepository.New,
	commentService.New,
)

var requestDomain = wire.NewSet(
	requestRepository.New,
	requestService.New,
)

var photoDomain = wire.NewSet(
	photoRepository.New,
	photoService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	itemDomain,
	reservationDomain,
	commentDomain,
	requestDomain,
	photoDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	itemHandler.New,
	reservationHandler.New,
	commentHandler.New,
	requestHandler.New,
	photoHandler.New,
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
