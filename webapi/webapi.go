// Package webapi assembles the Fiber application. Handlers live in
// sub-packages by domain:
// - auth: login
// - user: registration and the current user
// - account: accounts, balances, per-account transaction lists
// - transaction: transaction lifecycle and audit logs
// - recurring: recurring transaction definitions
package webapi

import (
	"errors"
	"strings"

	"github.com/finvault/finvault/pkg/app"
	accountweb "github.com/finvault/finvault/webapi/account"
	authweb "github.com/finvault/finvault/webapi/auth"
	"github.com/finvault/finvault/webapi/common"
	recurringweb "github.com/finvault/finvault/webapi/recurring"
	transactionweb "github.com/finvault/finvault/webapi/transaction"
	userweb "github.com/finvault/finvault/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp initializes Fiber with middleware and all routes.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName: "FinVault",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			message := "Internal Server Error"
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				message = fiberErr.Message
			}
			return common.ErrorJSON(c, message, err)
		},
	})

	// Rate limiting keyed on the originating client IP, honouring proxy
	// headers when present.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(common.Response{
				Success: false, Message: "Too many requests", Data: nil,
			})
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return common.SuccessJSON(c, "FinVault API is running", nil)
	})

	authweb.Routes(fiberApp, a.AuthService)
	userweb.Routes(fiberApp, a.UserService, a.Config)
	accountweb.Routes(fiberApp, a.AccountService, a.LedgerService, a.ProcessorService, a.Config)
	transactionweb.Routes(fiberApp, a.ProcessorService, a.Config)
	recurringweb.Routes(fiberApp, a.RecurringService, a.Config)
	return fiberApp
}
