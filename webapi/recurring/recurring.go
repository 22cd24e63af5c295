// Package recurring exposes CRUD endpoints for recurring transaction
// definitions, plus pause and resume.
package recurring

import (
	"time"

	"github.com/finvault/finvault/pkg/config"
	"github.com/finvault/finvault/pkg/domain"
	domtx "github.com/finvault/finvault/pkg/domain/transaction"
	"github.com/finvault/finvault/pkg/middleware"
	recsvc "github.com/finvault/finvault/pkg/service/recurring"
	"github.com/finvault/finvault/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// NewRecurring is the creation request body.
type NewRecurring struct {
	AccountID       string     `json:"account_id" validate:"required,uuid4"`
	Amount          float64    `json:"amount" validate:"required,gt=0"`
	Description     string     `json:"description" validate:"max=255"`
	Category        string     `json:"category" validate:"required"`
	RecipientNumber string     `json:"recipient_account_number" validate:"omitempty,len=11"`
	RecipientName   string     `json:"recipient_name" validate:"max=100"`
	Frequency       string     `json:"frequency" validate:"required,oneof=daily weekly monthly quarterly yearly"`
	StartDate       time.Time  `json:"start_date" validate:"required"`
	EndDate         *time.Time `json:"end_date"`
	MaxExecutions   *int       `json:"max_executions" validate:"omitempty,gt=0"`
}

// UpdateRecurring is the edit request body; absent fields are left untouched.
type UpdateRecurring struct {
	Amount        *float64   `json:"amount" validate:"omitempty,gt=0"`
	Description   *string    `json:"description" validate:"omitempty,max=255"`
	Frequency     *string    `json:"frequency" validate:"omitempty,oneof=daily weekly monthly quarterly yearly"`
	EndDate       *time.Time `json:"end_date"`
	MaxExecutions *int       `json:"max_executions" validate:"omitempty,gt=0"`
}

// Routes registers the recurring-transaction endpoints. All require auth.
func Routes(app *fiber.App, recurringSvc *recsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Post("/recurring-transactions", protected, Create(recurringSvc))
	app.Get("/recurring-transactions", protected, List(recurringSvc))
	app.Get("/recurring-transactions/:id", protected, Get(recurringSvc))
	app.Put("/recurring-transactions/:id", protected, Update(recurringSvc))
	app.Delete("/recurring-transactions/:id", protected, Cancel(recurringSvc))
	app.Post("/recurring-transactions/:id/pause", protected, Pause(recurringSvc))
	app.Post("/recurring-transactions/:id/resume", protected, Resume(recurringSvc))
}

// Create registers a recurring definition; the first run is due at start date.
func Create(recurringSvc *recsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ErrorJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[NewRecurring](c)
		if err != nil {
			return nil
		}
		accountID, err := uuid.Parse(input.AccountID)
		if err != nil {
			return common.ErrorJSON(c, "Invalid account id", domain.ErrValidation)
		}
		rt, err := recurringSvc.Create(c.UserContext(), userID, recsvc.CreateRequest{
			AccountID:       accountID,
			Amount:          input.Amount,
			Description:     input.Description,
			Category:        domtx.Category(input.Category),
			RecipientNumber: input.RecipientNumber,
			RecipientName:   input.RecipientName,
			Frequency:       domtx.Frequency(input.Frequency),
			StartDate:       input.StartDate,
			EndDate:         input.EndDate,
			MaxExecutions:   input.MaxExecutions,
		})
		if err != nil {
			return common.ErrorJSON(c, "Failed to create recurring transaction", err)
		}
		return common.SuccessJSON(c, "Recurring transaction created", rt, fiber.StatusCreated)
	}
}

// List returns every recurring definition across the user's accounts.
func List(recurringSvc *recsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ErrorJSON(c, "Unauthorized", err)
		}
		rts, err := recurringSvc.ListByUser(c.UserContext(), userID)
		if err != nil {
			return common.ErrorJSON(c, "Failed to list recurring transactions", err)
		}
		return common.SuccessJSON(c, "Recurring transactions found", rts)
	}
}

// Get returns one recurring definition.
func Get(recurringSvc *recsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return withID(c, func(userID, id uuid.UUID) (any, string, error) {
			rt, err := recurringSvc.Get(c.UserContext(), userID, id)
			return rt, "Recurring transaction found", err
		})
	}
}

// Update edits a recurring definition.
func Update(recurringSvc *recsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ErrorJSON(c, "Unauthorized", err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorJSON(c, "Invalid recurring transaction id", domain.ErrValidation)
		}
		input, err := common.BindAndValidate[UpdateRecurring](c)
		if err != nil {
			return nil
		}
		var freq *domtx.Frequency
		if input.Frequency != nil {
			f := domtx.Frequency(*input.Frequency)
			freq = &f
		}
		rt, err := recurringSvc.Update(c.UserContext(), userID, id, recsvc.UpdateRequest{
			Amount:        input.Amount,
			Description:   input.Description,
			Frequency:     freq,
			EndDate:       input.EndDate,
			MaxExecutions: input.MaxExecutions,
		})
		if err != nil {
			return common.ErrorJSON(c, "Failed to update recurring transaction", err)
		}
		return common.SuccessJSON(c, "Recurring transaction updated", rt)
	}
}

// Cancel soft-deletes a recurring definition.
func Cancel(recurringSvc *recsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return withID(c, func(userID, id uuid.UUID) (any, string, error) {
			rt, err := recurringSvc.Cancel(c.UserContext(), userID, id)
			return rt, "Recurring transaction cancelled", err
		})
	}
}

// Pause suspends an active definition.
func Pause(recurringSvc *recsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return withID(c, func(userID, id uuid.UUID) (any, string, error) {
			rt, err := recurringSvc.Pause(c.UserContext(), userID, id)
			return rt, "Recurring transaction paused", err
		})
	}
}

// Resume reactivates a paused definition.
func Resume(recurringSvc *recsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return withID(c, func(userID, id uuid.UUID) (any, string, error) {
			rt, err := recurringSvc.Resume(c.UserContext(), userID, id)
			return rt, "Recurring transaction resumed", err
		})
	}
}

func withID(c *fiber.Ctx, fn func(userID, id uuid.UUID) (any, string, error)) error {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		return common.ErrorJSON(c, "Unauthorized", err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return common.ErrorJSON(c, "Invalid recurring transaction id", domain.ErrValidation)
	}
	data, message, err := fn(userID, id)
	if err != nil {
		return common.ErrorJSON(c, "Request failed", err)
	}
	return common.SuccessJSON(c, message, data)
}
