package http

import (
	"time"

	"docdb-explorer/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber app serving the tree routes.
func NewApp(handler *TreeHandler, log logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "DocDB Explorer API v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: ErrorHandler(log),
		Immutable:    true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, X-Request-ID, " + HeaderConfirm,
		ExposeHeaders: fiber.HeaderXRequestID,
	}))
	app.Use(RequestIDMiddleware())
	app.Use(ContextMiddleware())

	handler.RegisterRoutes(app)
	return app
}
