// Package user exposes registration and the current-user endpoint.
package user

import (
	"github.com/finvault/finvault/pkg/config"
	"github.com/finvault/finvault/pkg/middleware"
	usersvc "github.com/finvault/finvault/pkg/service/user"
	"github.com/finvault/finvault/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// NewUser is the registration request body.
type NewUser struct {
	Username  string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email     string `json:"email" validate:"required,email,max=100"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"first_name" validate:"max=50"`
	LastName  string `json:"last_name" validate:"max=50"`
}

// Routes registers the user endpoints.
func Routes(app *fiber.App, userSvc *usersvc.Service, cfg *config.App) {
	app.Post("/user", Register(userSvc))
	app.Get("/user/me", middleware.JwtProtected(cfg.Auth.Jwt), Me(userSvc))
}

// Register creates a user together with their primary checking account.
func Register(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[NewUser](c)
		if err != nil {
			return nil
		}
		u, err := userSvc.Register(c.UserContext(), usersvc.RegisterRequest{
			Username:  input.Username,
			Email:     input.Email,
			Password:  input.Password,
			FirstName: input.FirstName,
			LastName:  input.LastName,
		})
		if err != nil {
			return common.ErrorJSON(c, "Failed to register user", err)
		}
		return common.SuccessJSON(c, "User registered", u, fiber.StatusCreated)
	}
}

// Me returns the authenticated user.
func Me(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ErrorJSON(c, "Unauthorized", err)
		}
		u, err := userSvc.Get(c.UserContext(), userID)
		if err != nil {
			return common.ErrorJSON(c, "Failed to load user", err)
		}
		return common.SuccessJSON(c, "User found", u)
	}
}
