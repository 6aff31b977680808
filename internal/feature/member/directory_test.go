package member

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery-forum/internal/domain"
)

type memRepo struct {
	rows    map[string]domain.Identity
	lastQ   domain.MemberQuery
	failing bool
}

func (m *memRepo) Upsert(_ context.Context, id *domain.Identity) error {
	if m.failing {
		return errors.New("boom")
	}
	if m.rows == nil {
		m.rows = map[string]domain.Identity{}
	}
	m.rows[id.ID] = *id
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*domain.Identity, error) {
	if r, ok := m.rows[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *memRepo) List(_ context.Context, q domain.MemberQuery) ([]domain.Identity, int64, error) {
	m.lastQ = q
	out := make([]domain.Identity, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func TestDirectory_RecordAndFind(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	d := NewDirectory(repo, nil, 0, nil)

	require.NoError(t, d.Record(ctx, domain.Identity{ID: "7", Username: "seven", Role: domain.RoleMember}))
	got, err := d.Find(ctx, "7")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "seven", got.Username)
}

func TestDirectory_SeedDefaults(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	d := NewDirectory(repo, nil, 0, nil)

	require.NoError(t, d.SeedDefaults(ctx, domain.Identity{ID: "1", Username: "admin", Role: domain.RoleAdmin, IsActive: true}))
	page, err := d.List(ctx, domain.MemberQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.False(t, repo.rows["3"].IsActive)
	assert.True(t, repo.rows["2"].IsActive)

	repo.failing = true
	assert.Error(t, d.SeedDefaults(ctx, domain.Identity{ID: "1"}))
}

func TestDirectory_ListClampsQuery(t *testing.T) {
	repo := &memRepo{}
	d := NewDirectory(repo, nil, 0, nil)

	_, err := d.List(context.Background(), domain.MemberQuery{Offset: -3, Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, domain.MemberQuery{Offset: 0, Limit: DefaultListLimit}, repo.lastQ)
}
