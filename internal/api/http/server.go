package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/goldennest/internal/api/http/handlers"
	"github.com/spec-kit/goldennest/internal/auth"
	"github.com/spec-kit/goldennest/internal/config"
	"github.com/spec-kit/goldennest/internal/events"
	"github.com/spec-kit/goldennest/internal/observability"
	"github.com/spec-kit/goldennest/internal/repository"
	"github.com/spec-kit/goldennest/internal/service"
	"github.com/spec-kit/goldennest/internal/storage"
)

// ServerDependencies is everything needed to assemble the HTTP application.
// Storage, Summary and Health entries are optional.
type ServerDependencies struct {
	Config     *config.Config
	Repos      repository.Set
	Summary    service.SummaryStore
	Storage    storage.Provider
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Health     map[string]handlers.Pinger
}

// NewServer builds services and handlers over deps and returns a ready fiber app.
func NewServer(deps ServerDependencies) *fiber.App {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(logger)
	}

	tokens := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.AccessTokenTTLMinutes, cfg.Auth.RefreshTokenTTLDays)
	authService := service.NewAuthService(deps.Repos.Users, tokens, cfg.Auth.BcryptCost, logger)
	propertyService := service.NewPropertyService(service.PropertyDependencies{
		PropertyRepo: deps.Repos.Properties,
		ImageRepo:    deps.Repos.Images,
		Summary:      deps.Summary,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	imageService := service.NewImageService(propertyService, deps.Repos.Images, deps.Storage, cfg.Storage.PresignTTL(), logger)
	inquiryService := service.NewInquiryService(propertyService, deps.Repos.Inquiries, dispatcher)
	visitService := service.NewVisitService(propertyService, deps.Repos.Visits, dispatcher)
	favoriteService := service.NewFavoriteService(propertyService, deps.Repos.Favorites)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: ErrorHandler(logger),
	})
	RegisterMiddlewares(app, MiddlewareConfig{
		Logger:        logger,
		Metrics:       deps.Metrics,
		CORS:          cfg.CORS,
		Timeout:       cfg.App.RequestTimeout(),
		Authenticator: auth.NewAuthenticator(tokens, deps.Repos.Users, logger),
		Policy:        auth.DefaultPolicy(),
	})
	RegisterRoutes(app, RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.Health, deps.Metrics),
		Auth:       handlers.NewAuthHandler(authService, cfg.Auth),
		Properties: handlers.NewPropertiesHandler(propertyService),
		Images:     handlers.NewImagesHandler(imageService),
		Admin:      handlers.NewAdminHandler(propertyService),
		Leads:      handlers.NewLeadsHandler(inquiryService, visitService),
		Favorites:  handlers.NewFavoritesHandler(favoriteService),
	})
	return app
}
