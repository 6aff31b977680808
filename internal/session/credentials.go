package session

import (
	"time"

	"lottery-forum/internal/domain"
	"lottery-forum/pkg/utils"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPasscode = "3494"
)

// Credentials holds the fixed administrator account. The passcode is kept only
// as a bcrypt hash.
type Credentials struct {
	admin domain.Identity
	hash  string
}

// NewCredentials builds the administrator account. An empty hash falls back to
// the hash of DefaultAdminPasscode.
func NewCredentials(username, passcodeHash string) *Credentials {
	if username == "" {
		username = DefaultAdminUsername
	}
	if passcodeHash == "" {
		passcodeHash = utils.HashPassword(DefaultAdminPasscode)
	}
	return &Credentials{
		admin: domain.Identity{
			ID:        "1",
			Username:  username,
			Email:     username + "@example.com",
			Role:      domain.RoleAdmin,
			IsActive:  true,
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		hash: passcodeHash,
	}
}

// Admin returns a copy of the administrator identity.
func (c *Credentials) Admin() domain.Identity { return c.admin }

func (c *Credentials) IsAdminName(username string) bool { return username == c.admin.Username }

func (c *Credentials) CheckAdmin(passcode string) bool {
	return utils.CheckPassword(passcode, c.hash)
}
