package handlers

import (
	"encoding/json"
	"strings"

	"earn-chain/middleware"
	"earn-chain/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func SetupAdminRoutes(app *fiber.App, ads *services.AdService, adminUserID string) {
	admin := app.Group("/admin", middleware.AdminAuthMiddleware(adminUserID))

	admin.Post("/ad", func(c *fiber.Ctx) error {
		var req struct {
			Title  string      `json:"title"`
			URL    string      `json:"url"`
			Reward json.Number `json:"reward"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "title, url, and reward required")
		}
		if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.URL) == "" || req.Reward == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title, url, and reward required")
		}
		reward, err := decimal.NewFromString(req.Reward.String())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "reward must be a number")
		}

		ad, err := ads.CreateAd(c.UserContext(), req.Title, req.URL, reward)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Ad created successfully",
			"id":      ad.ID,
		})
	})
}
