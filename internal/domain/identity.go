package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleGuest  Role = "guest"
)

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// CanInteract reports whether the role may like, share and comment.
func (r Role) CanInteract() bool { return r == RoleAdmin || r == RoleMember }

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleGuest:
		return true
	}
	return false
}

type Identity struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemberQuery filters the member directory listing.
type MemberQuery struct {
	Offset int
	Limit  int
	Q      string // matched against username and email
}

// MemberRepository stores identities seen at sign-in for the admin directory.
// FindByID returns nil, nil when the id is unknown.
type MemberRepository interface {
	Upsert(ctx context.Context, id *Identity) error
	FindByID(ctx context.Context, id string) (*Identity, error)
	List(ctx context.Context, q MemberQuery) ([]Identity, int64, error)
}
