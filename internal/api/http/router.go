package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/goldennest/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Properties *handlers.PropertiesHandler
	Images     *handlers.ImagesHandler
	Admin      *handlers.AdminHandler
	Leads      *handlers.LeadsHandler
	Favorites  *handlers.FavoritesHandler
}

// RegisterRoutes wires HTTP routes. Access control is applied globally by the
// route policy, so groups carry no per-route guards.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Auth.Me)

	properties := api.Group("/properties")
	properties.Get("/", cfg.Properties.Search)
	properties.Post("/", cfg.Properties.Create)
	properties.Get("/mine", cfg.Properties.Mine)
	properties.Get("/:id", cfg.Properties.Get)
	properties.Put("/:id/advanced", cfg.Properties.UpdateAdvanced)
	properties.Get("/:id/images", cfg.Images.List)
	properties.Post("/:id/images/upload-url", cfg.Images.UploadURL)
	properties.Post("/:id/images", cfg.Images.Register)
	properties.Delete("/:id/images/:imageId", cfg.Images.Delete)
	properties.Get("/:id/inquiries", cfg.Leads.PropertyInquiries)
	properties.Get("/:id/visit-requests", cfg.Leads.PropertyVisits)

	admin := api.Group("/admin/properties")
	admin.Get("/", cfg.Admin.ListProperties)
	admin.Get("/summary", cfg.Admin.Summary)
	admin.Patch("/:id/status", cfg.Admin.UpdateStatus)

	api.Post("/inquiries", cfg.Leads.CreateInquiry)

	visits := api.Group("/visit-requests")
	visits.Post("/", cfg.Leads.CreateVisit)
	visits.Get("/mine", cfg.Leads.MyVisits)
	visits.Patch("/:id/status", cfg.Leads.UpdateVisitStatus)

	favorites := api.Group("/favorites")
	favorites.Get("/", cfg.Favorites.List)
	favorites.Put("/:propertyId", cfg.Favorites.Add)
	favorites.Delete("/:propertyId", cfg.Favorites.Remove)
}
