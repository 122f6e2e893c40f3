package routes

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	database "pesantren_backend/internals/databases"
	helper "pesantren_backend/internals/helpers"
	"pesantren_backend/internals/helpers/apperror"
	"pesantren_backend/internals/route/action"
)

func BaseRoutes(app *fiber.App, r *action.Router, db *gorm.DB) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Pesantren API 🚀")
	})

	// GET /api?action=ping → cek koneksi store, tanpa payload data
	r.Get("ping", func(c *fiber.Ctx) error {
		if err := database.Ping(c.UserContext(), db); err != nil {
			return apperror.StoreError(err)
		}
		return helper.JsonSuccess(c, nil)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if err := database.Ping(c.UserContext(), db); err != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    os.Getenv("RAILWAY_ENVIRONMENT"),
		})
	})
}
