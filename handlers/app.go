package handlers

import (
	"errors"
	"path/filepath"

	"earn-chain/middleware"
	"earn-chain/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

// Deps is everything the HTTP layer needs to serve requests.
type Deps struct {
	Users   *services.UserService
	Ads     *services.AdService
	Claims  *services.ClaimService
	Queries *services.QueryService

	AdminUserID    string
	AllowedOrigins string
	WebDir         string // empty disables the web mini-app
}

// NewApp builds the fiber app with all routes registered.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Earn Chain",
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  d.AllowedOrigins,
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders: "X-Request-ID",
		MaxAge:        86400,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupRewardRoutes(app, d.Users, d.Claims, d.Queries)
	SetupAdminRoutes(app, d.Ads, d.AdminUserID)

	if d.WebDir != "" {
		index := filepath.Join(d.WebDir, "index.html")
		app.Get("/web", func(c *fiber.Ctx) error {
			return c.SendFile(index)
		})
		app.Static("/", d.WebDir, fiber.Static{Index: "index.html", MaxAge: 3600})
	}

	return app
}

// ErrorHandler turns service errors into the JSON error responses of the API.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ferr *fiber.Error
	var verr *services.ValidationError

	switch {
	case errors.As(err, &ferr):
		return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Msg})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, services.ErrAdNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ad not found"})
	case errors.Is(err, services.ErrCooldownActive):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ad already clicked within 24 hours"})
	}

	logrus.WithFields(logrus.Fields{
		"request_id": c.Locals("request_id"),
		"path":       c.Path(),
	}).Errorf("❌ Unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
