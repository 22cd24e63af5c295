package utils

import (
	"math/rand"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain password using bcrypt with cost 14.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// CheckPasswordHash compares a plain password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsEmail returns true if the string is a valid email address.
func IsEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

const (
	accountNumberPrefix = "ACC"
	accountNumberDigits = 8

	transactionRefPrefix = "TXN"
	transactionRefLength = 10
)

const (
	digits     = "0123456789"
	upperAlnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateAccountNumber returns a new external account number, "ACC" followed
// by eight digits.
func GenerateAccountNumber() string {
	var b strings.Builder
	b.WriteString(accountNumberPrefix)
	for i := 0; i < accountNumberDigits; i++ {
		b.WriteByte(digits[rand.Intn(len(digits))])
	}
	return b.String()
}

// GenerateTransactionReference returns a new transaction reference, "TXN"
// followed by ten uppercase alphanumerics.
func GenerateTransactionReference() string {
	var b strings.Builder
	b.WriteString(transactionRefPrefix)
	for i := 0; i < transactionRefLength; i++ {
		b.WriteByte(upperAlnum[rand.Intn(len(upperAlnum))])
	}
	return b.String()
}

// ValidAccountNumber reports whether s matches the generated format.
func ValidAccountNumber(s string) bool {
	if !strings.HasPrefix(s, accountNumberPrefix) {
		return false
	}
	if len(s) != len(accountNumberPrefix)+accountNumberDigits {
		return false
	}
	for _, r := range s[len(accountNumberPrefix):] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
