// Package session owns the current authenticated identity of one client and
// keeps it in a durable slot so it survives restarts.
//
// Credentials are not verified beyond the fixed administrator passcode: any
// other non-empty username/password pair signs in as a fresh member. A
// restored slot is trusted as-is.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"lottery-forum/internal/core/clock"
	"lottery-forum/internal/domain"
	"lottery-forum/internal/notify"
)

// Directory is told about every identity that signs in or registers.
type Directory interface {
	Record(ctx context.Context, id domain.Identity) error
}

type Store struct {
	slot  Slot
	creds *Credentials
	clk   clock.Source
	dir   Directory
	note  notify.Notifier
	log   *zap.Logger

	mu  sync.RWMutex
	cur *domain.Identity
}

type Option func(*Store)

func WithClock(c clock.Source) Option       { return func(s *Store) { s.clk = c } }
func WithDirectory(d Directory) Option      { return func(s *Store) { s.dir = d } }
func WithNotifier(n notify.Notifier) Option { return func(s *Store) { s.note = n } }
func WithLogger(l *zap.Logger) Option       { return func(s *Store) { s.log = l } }

func New(slot Slot, creds *Credentials, opts ...Option) *Store {
	s := &Store{
		slot:  slot,
		creds: creds,
		clk:   clock.NewSystem(),
		note:  notify.Nop,
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Current returns a copy of the signed-in identity, or nil when anonymous.
func (s *Store) Current() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return nil
	}
	id := *s.cur
	return &id
}

// Restore loads a previously persisted identity. It reports whether one was
// found; an unreadable record is left in place and ignored.
func (s *Store) Restore(ctx context.Context) bool {
	b, err := s.slot.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrEmpty) {
			s.log.Warn("load session slot", zap.Error(err))
		}
		return false
	}
	id, err := decodeIdentity(b)
	if err != nil {
		s.log.Warn("decode session slot", zap.Error(err))
		return false
	}
	s.set(id)
	return true
}

func (s *Store) Login(ctx context.Context, username, password string) bool {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		s.note.Notify(notify.Error, "username and password are required")
		return false
	}

	var id domain.Identity
	if s.creds.IsAdminName(username) {
		if !s.creds.CheckAdmin(password) {
			s.note.Notify(notify.Error, "invalid administrator passcode")
			return false
		}
		id = s.creds.Admin()
	} else {
		id = s.newMember(username, username+"@example.com")
	}
	s.signIn(ctx, &id)
	return true
}

// Register signs in a new member. Usernames and emails are not checked for
// uniqueness.
func (s *Store) Register(ctx context.Context, username, email, password string) bool {
	username, email = strings.TrimSpace(username), strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		s.note.Notify(notify.Error, "username, email and password are required")
		return false
	}
	id := s.newMember(username, email)
	s.signIn(ctx, &id)
	return true
}

func (s *Store) Logout(ctx context.Context) {
	s.set(nil)
	if err := s.slot.Remove(ctx); err != nil {
		s.log.Warn("remove session slot", zap.Error(err))
	}
}

func (s *Store) newMember(username, email string) domain.Identity {
	return domain.Identity{
		ID:        s.clk.NewID(),
		Username:  username,
		Email:     email,
		Role:      domain.RoleMember,
		IsActive:  true,
		CreatedAt: s.clk.Now(),
	}
}

// signIn makes id current. Slot and directory writes are best effort.
func (s *Store) signIn(ctx context.Context, id *domain.Identity) {
	s.set(id)
	if b, err := encodeIdentity(id); err != nil {
		s.log.Error("encode identity", zap.Error(err))
	} else if err := s.slot.Save(ctx, b); err != nil {
		s.log.Warn("save session slot", zap.Error(err))
	}
	if s.dir != nil {
		if err := s.dir.Record(ctx, *id); err != nil {
			s.log.Warn("record member", zap.String("id", id.ID), zap.Error(err))
		}
	}
	s.log.Info("signed in", zap.String("id", id.ID), zap.String("role", string(id.Role)))
}

func (s *Store) set(id *domain.Identity) {
	s.mu.Lock()
	s.cur = id
	s.mu.Unlock()
}
