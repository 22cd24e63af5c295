package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/finvault/finvault/infra/memory"
	"github.com/finvault/finvault/pkg/config"
	domuser "github.com/finvault/finvault/pkg/domain/user"
	"github.com/finvault/finvault/pkg/repository"
	"github.com/finvault/finvault/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestService(t *testing.T) (*Service, repository.UnitOfWork) {
	t.Helper()
	uow := memory.NewUoW()
	cfg := &config.Jwt{Secret: testSecret, Expiry: time.Hour}
	return New(uow, cfg, slog.New(slog.DiscardHandler)), uow
}

func seedUser(t *testing.T, uow repository.UnitOfWork, password string) *domuser.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	u := &domuser.User{
		ID:             uuid.New(),
		Username:       "jamie",
		Email:          "jamie@example.com",
		HashedPassword: hash,
	}
	require.NoError(t, uow.Users().Create(context.Background(), u))
	return u
}

func TestLoginWithEmail(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	u := seedUser(t, uow, "correct-horse")

	got, err := svc.Login(context.Background(), "jamie@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(u.ID, got.ID)
}

func TestLoginWithUsername(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	u := seedUser(t, uow, "correct-horse")

	got, err := svc.Login(context.Background(), "jamie", "correct-horse")
	require.NoError(t, err)
	assert.Equal(u.ID, got.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	seedUser(t, uow, "correct-horse")

	_, err := svc.Login(context.Background(), "jamie", "battery-staple")
	assert.ErrorIs(err, domuser.ErrUserUnauthorized)
}

func TestLoginUnknownIdentity(t *testing.T) {
	assert := assert.New(t)
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(err, domuser.ErrUserUnauthorized)
	_, err = svc.Login(context.Background(), "nobody", "whatever")
	assert.ErrorIs(err, domuser.ErrUserUnauthorized)
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	assert := assert.New(t)
	svc, uow := newTestService(t)
	u := seedUser(t, uow, "correct-horse")

	signed, err := svc.GenerateToken(u)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	id, err := GetCurrentUserID(token)
	require.NoError(t, err)
	assert.Equal(u.ID, id)
}

func TestGetCurrentUserIDRejectsBadClaims(t *testing.T) {
	assert := assert.New(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "not-a-uuid"})
	_, err := GetCurrentUserID(token)
	assert.ErrorIs(err, domuser.ErrUserUnauthorized)

	token = jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{})
	_, err = GetCurrentUserID(token)
	assert.ErrorIs(err, domuser.ErrUserUnauthorized)
}
