package member

import (
	"time"

	"lottery-forum/internal/domain"
)

type MemberModel struct {
	ID        string `gorm:"primaryKey;type:varchar(32)"`
	Username  string `gorm:"size:64;not null;index"`
	Email     string `gorm:"size:255;not null"`
	Role      string `gorm:"size:16;not null"`
	IsActive  bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (MemberModel) TableName() string { return "members" }

func FromIdentity(id domain.Identity) MemberModel {
	return MemberModel{
		ID:        id.ID,
		Username:  id.Username,
		Email:     id.Email,
		Role:      string(id.Role),
		IsActive:  id.IsActive,
		CreatedAt: id.CreatedAt,
	}
}

func (m MemberModel) Identity() domain.Identity {
	return domain.Identity{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		Role:      domain.Role(m.Role),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}
