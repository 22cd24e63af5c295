// Package common holds the response envelope and request binding helpers
// shared by every handler package.
package common

import (
	"errors"

	"github.com/finvault/finvault/pkg/domain"
	"github.com/finvault/finvault/pkg/domain/account"
	"github.com/finvault/finvault/pkg/domain/money"
	"github.com/finvault/finvault/pkg/domain/transaction"
	"github.com/finvault/finvault/pkg/domain/user"
	"github.com/finvault/finvault/pkg/service/auth"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Response is the envelope wrapping every API response, success or error.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

var validate = validator.New()

// SuccessJSON writes a success envelope. Status defaults to 200 OK.
func SuccessJSON(c *fiber.Ctx, message string, data any, status ...int) error {
	code := fiber.StatusOK
	if len(status) > 0 {
		code = status[0]
	}
	return c.Status(code).JSON(Response{Success: true, Message: message, Data: data})
}

// ErrorJSON writes an error envelope with the status derived from the error.
func ErrorJSON(c *fiber.Ctx, message string, err error) error {
	code := ErrorToStatusCode(err)
	if code == fiber.StatusInternalServerError {
		log.Errorf("%s: %v", message, err)
	}
	return c.Status(code).JSON(Response{Success: false, Message: message, Data: nil})
}

// ErrorToStatusCode maps domain errors onto HTTP status codes. Errors raised
// by Fiber itself (unknown route, bad method, oversized body) carry their own
// code and keep it.
func ErrorToStatusCode(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, money.ErrInvalidCurrencyCode),
		errors.Is(err, money.ErrCurrencyMismatch),
		errors.Is(err, account.ErrAmountMustBePositive),
		errors.Is(err, transaction.ErrAmountMustBePositive):
		return fiber.StatusBadRequest
	case errors.Is(err, user.ErrUserUnauthorized),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, account.ErrNotOwner),
		errors.Is(err, domain.ErrForbidden):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, transaction.ErrTransactionNotFound),
		errors.Is(err, transaction.ErrRecurringNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, account.ErrInsufficientFunds),
		errors.Is(err, account.ErrAccountNotActive),
		errors.Is(err, transaction.ErrInvalidState):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the JSON body into T and runs struct validation.
// On failure it writes the 400 envelope itself and returns a non-nil error so
// the handler can simply bail out.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		log.Debugf("body parse failed: %v", err)
		_ = c.Status(fiber.StatusBadRequest).JSON(Response{
			Success: false, Message: "Invalid request body", Data: nil,
		})
		return nil, err
	}
	if err := validate.Struct(&input); err != nil {
		log.Debugf("validation failed: %v", err)
		_ = c.Status(fiber.StatusBadRequest).JSON(Response{
			Success: false, Message: "Validation failed: " + err.Error(), Data: nil,
		})
		return nil, err
	}
	return &input, nil
}

// CurrentUserID pulls the authenticated user's id from the verified JWT put
// in locals by the auth middleware.
func CurrentUserID(c *fiber.Ctx) (id uuid.UUID, err error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	return auth.GetCurrentUserID(token)
}
