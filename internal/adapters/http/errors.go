package http

import "github.com/gofiber/fiber/v2"

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func errBadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(apiError{
		Error:   "bad_request",
		Message: message,
	})
}
