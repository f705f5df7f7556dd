package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/addisware/procure-api/internal/config"
	"github.com/addisware/procure-api/internal/database"
	"github.com/addisware/procure-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Database    string    `json:"database"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
}

// HealthCheck returns a handler that reports application health. A failing
// store probe degrades the report rather than failing the request.
func HealthCheck(cfg config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Database:    "connected",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		if db == nil {
			payload.Status = "degraded"
			payload.Database = "disconnected"
		} else if err := database.Ping(db); err != nil {
			payload.Status = "degraded"
			payload.Database = "disconnected"
		}

		return utils.SendSuccess(c, "service health", payload)
	}
}
