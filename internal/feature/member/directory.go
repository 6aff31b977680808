// Package member keeps the directory of identities that have signed in, shown
// in the admin panel's members section.
package member

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lottery-forum/internal/core/cache"
	"lottery-forum/internal/domain"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type Page struct {
	Total int64             `json:"total"`
	Items []domain.Identity `json:"items"`
}

type Directory struct {
	repo  domain.MemberRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewDirectory wraps repo. With a non-nil cache, listings are cached for ttl.
func NewDirectory(repo domain.MemberRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *Directory {
	if l == nil {
		l = zap.NewNop()
	}
	return &Directory{repo: repo, cache: c, ttl: ttl, log: l}
}

// listGenKey versions cached listings; Record bumps it so new sign-ins show
// up without waiting for the ttl.
const listGenKey = "members:gen"

// Record satisfies session.Directory.
func (d *Directory) Record(ctx context.Context, id domain.Identity) error {
	if err := d.repo.Upsert(ctx, &id); err != nil {
		return err
	}
	if d.cache != nil {
		if _, err := d.cache.Incr(ctx, listGenKey); err != nil {
			d.log.Warn("bump member listing generation", zap.Error(err))
		}
	}
	return nil
}

func (d *Directory) Find(ctx context.Context, id string) (*domain.Identity, error) {
	return d.repo.FindByID(ctx, id)
}

func (d *Directory) List(ctx context.Context, q domain.MemberQuery) (Page, error) {
	if q.Limit <= 0 || q.Limit > MaxListLimit {
		q.Limit = DefaultListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	load := func(ctx context.Context) (*Page, error) {
		items, total, err := d.repo.List(ctx, q)
		if err != nil {
			return nil, err
		}
		return &Page{Total: total, Items: items}, nil
	}
	if d.cache == nil {
		p, err := load(ctx)
		if err != nil {
			return Page{}, err
		}
		return *p, nil
	}
	gen, err := d.cache.Counter(ctx, listGenKey)
	if err != nil {
		d.log.Warn("read member listing generation", zap.Error(err))
	}
	key := fmt.Sprintf("members:%d:%d:%d:%s", gen, q.Offset, q.Limit, q.Q)
	p, err := cache.GetOrLoadJSON(d.cache, ctx, key, d.ttl, load)
	if err != nil {
		return Page{}, err
	}
	if p == nil {
		return Page{Items: []domain.Identity{}}, nil
	}
	return *p, nil
}

// SeedDefaults writes the administrator and the two demo members. member2
// starts suspended.
func (d *Directory) SeedDefaults(ctx context.Context, admin domain.Identity) error {
	seed := []domain.Identity{
		admin,
		{ID: "2", Username: "member1", Email: "member1@example.com", Role: domain.RoleMember, IsActive: true, CreatedAt: admin.CreatedAt},
		{ID: "3", Username: "member2", Email: "member2@example.com", Role: domain.RoleMember, IsActive: false, CreatedAt: admin.CreatedAt},
	}
	for i := range seed {
		if err := d.repo.Upsert(ctx, &seed[i]); err != nil {
			return fmt.Errorf("seed member %s: %w", seed[i].Username, err)
		}
	}
	d.log.Info("member directory seeded", zap.Int("count", len(seed)))
	return nil
}
