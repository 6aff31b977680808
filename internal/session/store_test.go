package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"lottery-forum/internal/core/clock"
	"lottery-forum/internal/domain"
	"lottery-forum/internal/notify"
	"lottery-forum/pkg/utils"
)

var testCreds = NewCredentials("", utils.HashPasswordCost(DefaultAdminPasscode, bcrypt.MinCost))

type fakeDirectory struct {
	seen []domain.Identity
	err  error
}

func (d *fakeDirectory) Record(_ context.Context, id domain.Identity) error {
	d.seen = append(d.seen, id)
	return d.err
}

func newTestStore(t *testing.T, slot Slot, opts ...Option) (*Store, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	opts = append([]Option{
		WithClock(clock.NewSequence("", time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC))),
		WithNotifier(rec),
	}, opts...)
	return New(slot, testCreds, opts...), rec
}

func TestLogin_AdminPasscode(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, NewMemorySlots().Slot(LocalKey))

	require.True(t, s.Login(ctx, "admin", "3494"))
	cur := s.Current()
	require.NotNil(t, cur)
	assert.Equal(t, testCreds.Admin(), *cur)
	assert.Equal(t, domain.RoleAdmin, cur.Role)
	assert.Equal(t, "1", cur.ID)
}

func TestLogin_AdminWrongPasscodeKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	s, rec := newTestStore(t, NewMemorySlots().Slot(LocalKey))

	require.True(t, s.Login(ctx, "somchai", "pw"))
	before := s.Current()

	assert.False(t, s.Login(ctx, "admin", "wrong"))
	assert.Equal(t, before, s.Current())

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.Error, last.Kind)
}

func TestLogin_AnyCredentialsMakeMember(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, NewMemorySlots().Slot(LocalKey))

	require.True(t, s.Login(ctx, "lucky7", "whatever"))
	cur := s.Current()
	require.NotNil(t, cur)
	assert.Equal(t, domain.RoleMember, cur.Role)
	assert.Equal(t, "lucky7@example.com", cur.Email)
	assert.Equal(t, "1", cur.ID)
	assert.True(t, cur.IsActive)

	require.True(t, s.Login(ctx, "lucky8", "x"))
	assert.Equal(t, "2", s.Current().ID, "each login synthesises a fresh id")
}

func TestLogin_EmptyFieldsFail(t *testing.T) {
	ctx := context.Background()
	slots := NewMemorySlots()
	s, rec := newTestStore(t, slots.Slot(LocalKey))

	for _, tc := range []struct{ user, pass string }{
		{"", "pw"}, {"user", ""}, {"   ", "pw"}, {"", ""},
	} {
		assert.False(t, s.Login(ctx, tc.user, tc.pass), "%q/%q", tc.user, tc.pass)
	}
	assert.Nil(t, s.Current())
	assert.Equal(t, 0, slots.Len())
	assert.Len(t, rec.Notices(), 4)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	dir := &fakeDirectory{}
	s, _ := newTestStore(t, NewMemorySlots().Slot(LocalKey), WithDirectory(dir))

	assert.False(t, s.Register(ctx, "u", "", "pw"))
	assert.Nil(t, s.Current())

	require.True(t, s.Register(ctx, "newbie", "newbie@mail.test", "pw"))
	cur := s.Current()
	require.NotNil(t, cur)
	assert.Equal(t, domain.RoleMember, cur.Role)
	assert.Equal(t, "newbie@mail.test", cur.Email)

	// no uniqueness check
	require.True(t, s.Register(ctx, "newbie", "newbie@mail.test", "pw"))
	require.Len(t, dir.seen, 2)
	assert.NotEqual(t, dir.seen[0].ID, dir.seen[1].ID)
}

func TestDirectoryFailureDoesNotFailLogin(t *testing.T) {
	s, _ := newTestStore(t, NewMemorySlots().Slot(LocalKey), WithDirectory(&fakeDirectory{err: errors.New("db down")}))
	assert.True(t, s.Login(context.Background(), "m", "p"))
}

func TestPersistAndRestore(t *testing.T) {
	ctx := context.Background()
	slot := FileSlots{Dir: t.TempDir()}.Slot(LocalKey)

	s1, _ := newTestStore(t, slot)
	require.True(t, s1.Login(ctx, "admin", "3494"))

	s2, _ := newTestStore(t, slot)
	assert.Nil(t, s2.Current())
	require.True(t, s2.Restore(ctx))
	assert.Equal(t, s1.Current().ID, s2.Current().ID)
	assert.Equal(t, domain.RoleAdmin, s2.Current().Role)

	s2.Logout(ctx)
	assert.Nil(t, s2.Current())

	s3, _ := newTestStore(t, slot)
	assert.False(t, s3.Restore(ctx))
	assert.Nil(t, s3.Current())
}

func TestRestore_IgnoresGarbage(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlots().Slot(LocalKey)
	require.NoError(t, slot.Save(ctx, []byte("{not json")))

	s, _ := newTestStore(t, slot)
	assert.False(t, s.Restore(ctx))
	assert.Nil(t, s.Current())

	require.NoError(t, slot.Save(ctx, []byte(`{"id":"9","role":"superuser"}`)))
	assert.False(t, s.Restore(ctx))
}

func TestLogoutWhenAnonymous(t *testing.T) {
	s, _ := newTestStore(t, FileSlots{Dir: filepath.Join(t.TempDir(), "missing")}.Slot("k"))
	s.Logout(context.Background())
	assert.Nil(t, s.Current())
}

func TestCurrentReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t, NewMemorySlots().Slot(LocalKey))
	require.True(t, s.Login(context.Background(), "m", "p"))
	s.Current().Role = domain.RoleAdmin
	assert.Equal(t, domain.RoleMember, s.Current().Role)
}
