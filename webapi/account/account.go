// Package account exposes account endpoints: opening, listing, balance reads
// and the per-account transaction list.
package account

import (
	"github.com/finvault/finvault/pkg/config"
	"github.com/finvault/finvault/pkg/domain"
	domacc "github.com/finvault/finvault/pkg/domain/account"
	"github.com/finvault/finvault/pkg/middleware"
	accsvc "github.com/finvault/finvault/pkg/service/account"
	"github.com/finvault/finvault/pkg/service/ledger"
	"github.com/finvault/finvault/pkg/service/processor"
	"github.com/finvault/finvault/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// NewAccount is the account creation request body.
type NewAccount struct {
	Type string `json:"type" validate:"omitempty,oneof=checking savings business"`
}

// Routes registers the account endpoints. All of them require auth.
func Routes(app *fiber.App, accountSvc *accsvc.Service, ledgerSvc *ledger.Service, processorSvc *processor.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Post("/account", protected, Create(accountSvc))
	app.Get("/account", protected, List(accountSvc))
	app.Get("/account/:id/balance", protected, Balance(ledgerSvc))
	app.Get("/account/:id/transactions", protected, Transactions(processorSvc))
}

// Create opens an additional account for the authenticated user.
func Create(accountSvc *accsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ErrorJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[NewAccount](c)
		if err != nil {
			return nil
		}
		accType := domacc.TypeChecking
		if input.Type != "" {
			accType = domacc.Type(input.Type)
		}
		a, err := accountSvc.Create(c.UserContext(), userID, accType)
		if err != nil {
			return common.ErrorJSON(c, "Failed to open account", err)
		}
		return common.SuccessJSON(c, "Account opened", a, fiber.StatusCreated)
	}
}

// List returns the authenticated user's accounts.
func List(accountSvc *accsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ErrorJSON(c, "Unauthorized", err)
		}
		accounts, err := accountSvc.ListByUser(c.UserContext(), userID)
		if err != nil {
			return common.ErrorJSON(c, "Failed to list accounts", err)
		}
		return common.SuccessJSON(c, "Accounts found", accounts)
	}
}

// Balance returns the account's balance view with a masked account number.
func Balance(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ErrorJSON(c, "Unauthorized", err)
		}
		accountID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorJSON(c, "Invalid account id", domain.ErrValidation)
		}
		balance, err := ledgerSvc.GetBalance(c.UserContext(), userID, accountID)
		if err != nil {
			return common.ErrorJSON(c, "Failed to get balance", err)
		}
		return common.SuccessJSON(c, "Balance found", balance)
	}
}

// Transactions returns the account's transactions, newest first. The optional
// limit query parameter caps the page size.
func Transactions(processorSvc *processor.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ErrorJSON(c, "Unauthorized", err)
		}
		accountID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorJSON(c, "Invalid account id", domain.ErrValidation)
		}
		limit := c.QueryInt("limit", 50)
		txs, err := processorSvc.ListByAccount(c.UserContext(), userID, accountID, limit)
		if err != nil {
			return common.ErrorJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessJSON(c, "Transactions found", txs)
	}
}
