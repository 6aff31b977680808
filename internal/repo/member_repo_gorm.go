package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lottery-forum/internal/domain"
	"lottery-forum/internal/feature/member"
)

type MemberRepo struct{ db *gorm.DB }

func NewMemberRepo(db *gorm.DB) *MemberRepo { return &MemberRepo{db: db} }

var _ domain.MemberRepository = (*MemberRepo)(nil)

// Upsert inserts the identity or overwrites the stored row with the same id.
func (r *MemberRepo) Upsert(ctx context.Context, id *domain.Identity) error {
	m := member.FromIdentity(*id)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "email", "role", "is_active", "updated_at"}),
	}).Create(&m).Error
}

func (r *MemberRepo) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	var m member.MemberModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := m.Identity()
	return &out, nil
}

func (r *MemberRepo) List(ctx context.Context, q domain.MemberQuery) ([]domain.Identity, int64, error) {
	tx := r.db.WithContext(ctx).Model(&member.MemberModel{})
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("username LIKE ? OR email LIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []member.MemberModel
	if err := tx.Order("created_at desc").Order("id").Offset(q.Offset).Limit(q.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.Identity, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.Identity())
	}
	return out, total, nil
}
