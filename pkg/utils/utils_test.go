package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	assert := assert.New(t)

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual("s3cret-pass", hash)
	assert.True(CheckPasswordHash("s3cret-pass", hash))
	assert.False(CheckPasswordHash("wrong-pass", hash))
}

func TestIsEmail(t *testing.T) {
	assert := assert.New(t)

	assert.True(IsEmail("user@example.com"))
	assert.False(IsEmail("not-an-email"))
	assert.False(IsEmail(""))
}

func TestGenerateAccountNumber(t *testing.T) {
	assert := assert.New(t)

	for i := 0; i < 100; i++ {
		n := GenerateAccountNumber()
		assert.Regexp(`^ACC\d{8}$`, n)
		assert.True(ValidAccountNumber(n))
	}
}

func TestGenerateTransactionReference(t *testing.T) {
	assert := assert.New(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := GenerateTransactionReference()
		assert.Regexp(`^TXN[A-Z0-9]{10}$`, ref)
		seen[ref] = true
	}
	assert.Greater(len(seen), 90, "references should be effectively unique")
}

func TestValidAccountNumber(t *testing.T) {
	assert := assert.New(t)

	assert.True(ValidAccountNumber("ACC12345678"))
	assert.False(ValidAccountNumber("ACC1234567"), "too short")
	assert.False(ValidAccountNumber("ACC123456789"), "too long")
	assert.False(ValidAccountNumber("ACX12345678"), "wrong prefix")
	assert.False(ValidAccountNumber("ACC1234567A"), "non-digit suffix")
}
