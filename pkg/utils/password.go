package utils

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(pw string) string {
	return HashPasswordCost(pw, bcrypt.DefaultCost)
}

func HashPasswordCost(pw string, cost int) string {
	b, _ := bcrypt.GenerateFromPassword([]byte(pw), cost)
	return string(b)
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}

// NewID returns a random 32-char hex id.
func NewID() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }
