// Package transaction exposes the transaction endpoints: creation, lookup,
// cancellation and the audit log.
package transaction

import (
	"context"

	"github.com/finvault/finvault/pkg/config"
	"github.com/finvault/finvault/pkg/domain"
	domtx "github.com/finvault/finvault/pkg/domain/transaction"
	"github.com/finvault/finvault/pkg/middleware"
	"github.com/finvault/finvault/pkg/service/processor"
	"github.com/finvault/finvault/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// NewTransaction is the creation request body.
type NewTransaction struct {
	AccountID       string  `json:"account_id" validate:"required,uuid4"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	TransactionType string  `json:"transaction_type" validate:"required,oneof=credit debit"`
	Category        string  `json:"category" validate:"required"`
	Description     string  `json:"description" validate:"max=255"`
	RecipientNumber string  `json:"recipient_account_number" validate:"omitempty,len=11"`
	RecipientName   string  `json:"recipient_name" validate:"max=100"`
}

// Routes registers the transaction endpoints. All of them require auth.
func Routes(app *fiber.App, processorSvc *processor.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Post("/transactions", protected, Create(processorSvc))
	app.Get("/transactions/:id", protected, Get(processorSvc))
	app.Post("/transactions/:id/cancel", protected, Cancel(processorSvc))
	app.Get("/transactions/:id/logs", protected, Logs(processorSvc))
}

// Create inserts a pending transaction and hands it to the processor in the
// background, so the response returns before settlement.
func Create(processorSvc *processor.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ErrorJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[NewTransaction](c)
		if err != nil {
			return nil
		}
		accountID, err := uuid.Parse(input.AccountID)
		if err != nil {
			return common.ErrorJSON(c, "Invalid account id", domain.ErrValidation)
		}
		created, err := processorSvc.Create(c.UserContext(), userID, processor.CreateRequest{
			AccountID:       accountID,
			Amount:          input.Amount,
			Direction:       domtx.Direction(input.TransactionType),
			Category:        domtx.Category(input.Category),
			Description:     input.Description,
			RecipientNumber: input.RecipientNumber,
			RecipientName:   input.RecipientName,
		})
		if err != nil {
			return common.ErrorJSON(c, "Failed to create transaction", err)
		}
		go func(id uuid.UUID) {
			if _, err := processorSvc.Process(context.Background(), id); err != nil {
				log.Warnf("processing transaction %s: %v", id, err)
			}
		}(created.ID)
		return common.SuccessJSON(c, "Transaction created", created, fiber.StatusCreated)
	}
}

// Get returns one transaction owned by the authenticated user.
func Get(processorSvc *processor.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ErrorJSON(c, "Unauthorized", err)
		}
		txID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorJSON(c, "Invalid transaction id", domain.ErrValidation)
		}
		tx, err := processorSvc.Get(c.UserContext(), userID, txID)
		if err != nil {
			return common.ErrorJSON(c, "Failed to get transaction", err)
		}
		return common.SuccessJSON(c, "Transaction found", tx)
	}
}

// Cancel aborts a pending transaction.
func Cancel(processorSvc *processor.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ErrorJSON(c, "Unauthorized", err)
		}
		txID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorJSON(c, "Invalid transaction id", domain.ErrValidation)
		}
		tx, err := processorSvc.Cancel(c.UserContext(), userID, txID)
		if err != nil {
			return common.ErrorJSON(c, "Failed to cancel transaction", err)
		}
		return common.SuccessJSON(c, "Transaction cancelled", tx)
	}
}

// Logs returns the transaction's audit trail in chronological order.
func Logs(processorSvc *processor.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ErrorJSON(c, "Unauthorized", err)
		}
		txID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorJSON(c, "Invalid transaction id", domain.ErrValidation)
		}
		logs, err := processorSvc.Logs(c.UserContext(), userID, txID)
		if err != nil {
			return common.ErrorJSON(c, "Failed to get transaction logs", err)
		}
		return common.SuccessJSON(c, "Transaction logs found", logs)
	}
}
