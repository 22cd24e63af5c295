// Package auth exposes the login endpoint.
package auth

import (
	"github.com/finvault/finvault/pkg/service/auth"
	"github.com/finvault/finvault/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// LoginInput is the login request body. Identity accepts email or username.
type LoginInput struct {
	Identity string `json:"identity" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Routes registers the auth endpoints.
func Routes(app *fiber.App, authSvc *auth.Service) {
	app.Post("/auth/login", Login(authSvc))
}

// Login verifies credentials and returns a bearer token.
func Login(authSvc *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if err != nil {
			return nil
		}
		u, err := authSvc.Login(c.UserContext(), input.Identity, input.Password)
		if err != nil {
			return common.ErrorJSON(c, "Invalid credentials", err)
		}
		token, err := authSvc.GenerateToken(u)
		if err != nil {
			return common.ErrorJSON(c, "Failed to issue token", err)
		}
		return common.SuccessJSON(c, "Login successful", fiber.Map{"token": token})
	}
}
