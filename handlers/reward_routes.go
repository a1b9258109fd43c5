// handlers/reward_routes.go
package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"earn-chain/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRewardRoutes(app *fiber.App, users *services.UserService, claims *services.ClaimService, queries *services.QueryService) {
	app.Post("/register", func(c *fiber.Ctx) error {
		var req struct {
			UserID json.Number `json:"userId"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "userId required")
		}
		userID, ok := parseID(req.UserID.String())
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "userId required")
		}

		if _, err := users.Register(c.UserContext(), userID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "User registered"})
	})

	app.Get("/ads", func(c *fiber.Ctx) error {
		userID, ok := parseID(c.Query("userId"))
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "userId required")
		}

		ads, err := queries.ListAvailableAds(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(ads)
	})

	app.Post("/click", func(c *fiber.Ctx) error {
		var req struct {
			UserID json.Number `json:"userId"`
			AdID   json.Number `json:"adId"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "userId and adId required")
		}
		userID, okUser := parseID(req.UserID.String())
		adID, okAd := parseID(req.AdID.String())
		if !okUser || !okAd {
			return fiber.NewError(fiber.StatusBadRequest, "userId and adId required")
		}

		points, err := claims.Claim(c.UserContext(), userID, adID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"message": "Ad clicked successfully",
			"points":  points,
		})
	})

	app.Get("/user/:id", func(c *fiber.Ctx) error {
		userID, ok := parseID(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
		}

		balance, err := queries.GetBalance(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"balance": balance})
	})

	app.Get("/history/:id", func(c *fiber.Ctx) error {
		userID, ok := parseID(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
		}

		history, err := queries.GetHistory(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(history)
	})
}

// parseID accepts a positive decimal integer, as sent by the web app either as a
// JSON number or a string.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
