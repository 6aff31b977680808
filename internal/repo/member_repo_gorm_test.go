package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lottery-forum/internal/core/database"
	"lottery-forum/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func ident(id, name string, at time.Time) *domain.Identity {
	return &domain.Identity{ID: id, Username: name, Email: name + "@example.com", Role: domain.RoleMember, IsActive: true, CreatedAt: at}
}

func TestMemberRepo_UpsertAndFind(t *testing.T) {
	ctx := context.Background()
	r := NewMemberRepo(setupTestDB(t))
	at := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Upsert(ctx, ident("10", "lucky", at)))
	got, err := r.FindByID(ctx, "10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "lucky", got.Username)
	assert.Equal(t, domain.RoleMember, got.Role)
	assert.True(t, got.IsActive)

	upd := ident("10", "lucky", at)
	upd.Email = "new@mail.test"
	upd.IsActive = false
	require.NoError(t, r.Upsert(ctx, upd))
	got, err = r.FindByID(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, "new@mail.test", got.Email)
	assert.False(t, got.IsActive)

	missing, err := r.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemberRepo_List(t *testing.T) {
	ctx := context.Background()
	r := NewMemberRepo(setupTestDB(t))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"alpha", "bravo", "charlie", "alphonse"} {
		require.NoError(t, r.Upsert(ctx, ident(string(rune('1'+i)), name, base.Add(time.Duration(i)*time.Hour))))
	}

	items, total, err := r.List(ctx, domain.MemberQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, items, 2)
	assert.Equal(t, "alphonse", items[0].Username, "newest first")

	items, total, err = r.List(ctx, domain.MemberQuery{Limit: 10, Q: "alph"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)
}
