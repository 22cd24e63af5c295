// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"github.com/finvault/finvault/pkg/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// JwtProtected guards a route with bearer JWT auth. The verified token is
// stored in c.Locals("user").
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	log.Debugf("jwt rejected: %v", err)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Missing or invalid token",
		"data":    nil,
	})
}
