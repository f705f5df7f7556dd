package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/addisware/procure-api/internal/config"
	"github.com/addisware/procure-api/internal/handler"
	"github.com/addisware/procure-api/internal/middleware"
	"github.com/addisware/procure-api/internal/models"
	"github.com/addisware/procure-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	TenderHandler     *handler.TenderHandler
	BidHandler        *handler.BidHandler
	EvaluationHandler *handler.EvaluationHandler
	AdminHandler      *handler.AdminHandler
	ReportHandler     *handler.ReportHandler
	JWTMiddleware     fiber.Handler
	DB                *gorm.DB
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/health", handler.HealthCheck(cfg, deps.DB))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil.
	protect := deps.JWTMiddleware
	if protect == nil {
		protect = func(c *fiber.Ctx) error { return c.Next() }
	}

	adminOnly := middleware.RequireRole(models.RoleAdmin)
	vendorOnly := middleware.RequireRole(models.RoleVendor)

	if deps.AuthHandler != nil {
		// Credential endpoints get a tighter bucket to slow brute forcing.
		auth := app.Group("/auth", middleware.RateLimit("auth", 30, time.Minute))
		deps.AuthHandler.Register(auth, protect)
	}

	tenders := app.Group("/tenders")
	if deps.TenderHandler != nil {
		deps.TenderHandler.Register(tenders, protect, adminOnly)
	}
	if deps.BidHandler != nil {
		deps.BidHandler.Register(tenders, app.Group("/bids"), protect, vendorOnly, adminOnly)
	}

	if deps.EvaluationHandler != nil {
		deps.EvaluationHandler.Register(app.Group("/evaluations"), protect, adminOnly)
	}

	if deps.AdminHandler != nil {
		deps.AdminHandler.Register(app.Group("/admin", protect, adminOnly))
	}

	if deps.ReportHandler != nil {
		deps.ReportHandler.Register(app.Group("/reports", protect, adminOnly))
	}
}
