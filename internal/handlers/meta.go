package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   true,
		"message":   "Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Index describes the API surface for anyone poking at the root URL.
func Index(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "User-Video Management API",
		"version": "1.0.0",
		"endpoints": fiber.Map{
			"auth": fiber.Map{
				"register": "POST /auth/register",
				"login":    "POST /auth/login",
			},
			"users": fiber.Map{
				"getAll":       "GET /users (protected)",
				"getById":      "GET /users/:id (protected)",
				"update":       "PUT /users/:id (protected)",
				"delete":       "DELETE /users/:id (protected)",
				"uploadAvatar": "POST /users/:id/avatar (protected)",
			},
			"videos": fiber.Map{
				"create":  "POST /videos (protected)",
				"getAll":  "GET /videos?search=&category=",
				"getById": "GET /videos/:id",
				"update":  "PUT /videos/:id (protected)",
				"delete":  "DELETE /videos/:id (protected)",
			},
		},
	})
}
