// Package auth implements credential verification and JWT issuance.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/finvault/finvault/pkg/config"
	"github.com/finvault/finvault/pkg/domain"
	"github.com/finvault/finvault/pkg/domain/user"
	"github.com/finvault/finvault/pkg/repository"
	"github.com/finvault/finvault/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// dummyHash keeps failed lookups on the same bcrypt code path as failed
// password checks, so login timing does not reveal whether a user exists.
const dummyHash = "$2a$14$C6UzMDM.H6dfI/f/IKcEeO5c0XXCuR0vSx6VXhOQmTRgEvrY8Xlc2"

// Service verifies credentials and issues tokens.
type Service struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

// New creates an auth service.
func New(uow repository.UnitOfWork, cfg *config.Jwt, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Login verifies an identity (email or username) and password, returning the
// user on success and user.ErrUserUnauthorized otherwise.
func (s *Service) Login(ctx context.Context, identity, password string) (*user.User, error) {
	var (
		u   *user.User
		err error
	)
	if utils.IsEmail(identity) {
		u, err = s.uow.Users().GetByEmail(ctx, identity)
	} else {
		u, err = s.uow.Users().GetByUsername(ctx, identity)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			utils.CheckPasswordHash(password, dummyHash)
			return nil, user.ErrUserUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, u.HashedPassword) {
		s.logger.Warn("login failed", "user_id", u.ID)
		return nil, user.ErrUserUnauthorized
	}
	s.logger.Info("login succeeded", "user_id", u.ID)
	return u, nil
}

// GenerateToken issues a signed JWT for the user.
func (s *Service) GenerateToken(u *user.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  u.ID.String(),
		"username": u.Username,
		"email":    u.Email,
		"exp":      time.Now().Add(s.cfg.Expiry).Unix(),
	})
	return token.SignedString([]byte(s.cfg.Secret))
}

// GetCurrentUserID extracts the authenticated user id from a verified token.
func GetCurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	return id, nil
}
