// Package forum owns the posts and comments of the board and applies every
// mutation to them.
//
// Each mutation checks the acting identity's role, builds a new Snapshot and
// publishes it atomically. Readers holding an older Snapshot keep a
// consistent view. Writers are serialised.
//
// Operations on ids that do not exist change nothing and report no error.
package forum

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"lottery-forum/internal/core/clock"
	"lottery-forum/internal/domain"
	"lottery-forum/internal/notify"
)

// Rand is the randomness used for view bumps.
type Rand interface {
	IntN(n int) int
}

type defaultRand struct{}

func (defaultRand) IntN(n int) int { return rand.IntN(n) }

// DefaultMaxViewBump matches the front-end's 0..2 extra views per refresh.
const DefaultMaxViewBump = 2

type Manager struct {
	clk     clock.Source
	rnd     Rand
	note    notify.Notifier
	metrics *Metrics
	log     *zap.Logger
	maxBump int

	mu   sync.Mutex // held by writers
	snap atomic.Pointer[Snapshot]
}

type Option func(*Manager)

func WithClock(c clock.Source) Option       { return func(m *Manager) { m.clk = c } }
func WithRand(r Rand) Option                { return func(m *Manager) { m.rnd = r } }
func WithNotifier(n notify.Notifier) Option { return func(m *Manager) { m.note = n } }
func WithMetrics(mt *Metrics) Option        { return func(m *Manager) { m.metrics = mt } }
func WithLogger(l *zap.Logger) Option       { return func(m *Manager) { m.log = l } }
func WithMaxViewBump(n int) Option          { return func(m *Manager) { m.maxBump = n } }

// WithSnapshot sets the initial content, e.g. from Seed.
func WithSnapshot(s *Snapshot) Option { return func(m *Manager) { m.snap.Store(s) } }

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		clk:     clock.NewSystem(),
		rnd:     defaultRand{},
		note:    notify.Nop,
		log:     zap.NewNop(),
		maxBump: DefaultMaxViewBump,
	}
	m.snap.Store(&Snapshot{})
	for _, o := range opts {
		o(m)
	}
	m.metrics.observe(m.Snapshot())
	return m
}

// Snapshot returns the current published version.
func (m *Manager) Snapshot() *Snapshot { return m.snap.Load() }

// ---------- authorisation ----------

type need int

const (
	needAdmin need = iota
	needInteract
)

func (m *Manager) authorize(op string, who *domain.Identity, n need, denied string) error {
	var err error
	switch {
	case who == nil:
		err = domain.ErrUnauthenticated
	case n == needAdmin && !who.Role.IsAdmin():
		err = domain.ErrForbidden
	case n == needInteract && !who.Role.CanInteract():
		err = domain.ErrForbidden
	}
	if err != nil {
		m.note.Notify(notify.Error, denied)
		m.metrics.count(op, outcomeDenied)
		fields := []zap.Field{zap.String("op", op), zap.Error(err)}
		if who != nil {
			fields = append(fields, zap.String("uid", who.ID), zap.String("role", string(who.Role)))
		}
		m.log.Debug("denied", fields...)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// mutate runs fn under the writer lock and publishes the snapshot it returns.
// A nil result means nothing changed.
func (m *Manager) mutate(op string, fn func(cur *Snapshot) *Snapshot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := fn(m.snap.Load())
	if next == nil {
		m.metrics.count(op, outcomeMissing)
		return false
	}
	m.snap.Store(next)
	m.metrics.count(op, outcomeOK)
	m.metrics.observe(next)
	return true
}

// ---------- posts ----------

func (m *Manager) CreatePost(who *domain.Identity, title, content string, cat domain.Category) (domain.Post, error) {
	const op = "create_post"
	if err := m.authorize(op, who, needAdmin, "only administrators can create posts"); err != nil {
		return domain.Post{}, err
	}
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" || content == "" {
		m.metrics.count(op, outcomeInvalid)
		return domain.Post{}, fmt.Errorf("%s: %w: title and content are required", op, domain.ErrInvalid)
	}
	if _, err := domain.ParseCategory(string(cat)); err != nil {
		m.metrics.count(op, outcomeInvalid)
		return domain.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	p := domain.Post{
		ID:        m.clk.NewID(),
		Title:     title,
		Content:   content,
		Category:  cat,
		AuthorID:  who.ID,
		Author:    who.Username,
		CreatedAt: m.clk.Now(),
	}
	m.mutate(op, func(cur *Snapshot) *Snapshot {
		posts := make([]domain.Post, 0, len(cur.posts)+1)
		posts = append(posts, p)
		return cur.withPosts(append(posts, cur.posts...))
	})
	m.note.Notify(notify.Success, "post created")
	m.log.Info("post created", zap.String("id", p.ID), zap.String("category", string(cat)))
	return p, nil
}

// DeletePost removes the post and every comment on it.
func (m *Manager) DeletePost(who *domain.Identity, postID string) error {
	const op = "delete_post"
	if err := m.authorize(op, who, needAdmin, "only administrators can delete posts"); err != nil {
		return err
	}
	removed := m.mutate(op, func(cur *Snapshot) *Snapshot {
		i := cur.postIndex(postID)
		if i < 0 {
			return nil
		}
		posts := slices.Delete(slices.Clone(cur.posts), i, i+1)
		comments := slices.DeleteFunc(slices.Clone(cur.comments), func(c domain.Comment) bool {
			return c.PostID == postID
		})
		return &Snapshot{posts: posts, comments: comments}
	})
	if removed {
		m.note.Notify(notify.Success, "post deleted")
		m.log.Info("post deleted", zap.String("id", postID), zap.String("by", who.ID))
	}
	return nil
}

// LikePost toggles the identity's like on a post.
func (m *Manager) LikePost(who *domain.Identity, postID string) error {
	const op = "like_post"
	if err := m.authorize(op, who, needInteract, "log in as a member to like posts"); err != nil {
		return err
	}
	m.mutate(op, func(cur *Snapshot) *Snapshot {
		i := cur.postIndex(postID)
		if i < 0 {
			return nil
		}
		p, _ := cur.posts[i].ToggleLike(who.ID)
		return cur.replacePost(i, p)
	})
	return nil
}

// SharePost counts one more share; repeat shares all count.
func (m *Manager) SharePost(who *domain.Identity, postID string) error {
	const op = "share_post"
	if err := m.authorize(op, who, needInteract, "log in as a member to share posts"); err != nil {
		return err
	}
	shared := m.mutate(op, func(cur *Snapshot) *Snapshot {
		i := cur.postIndex(postID)
		if i < 0 {
			return nil
		}
		p := cur.posts[i]
		p.Shares++
		return cur.replacePost(i, p)
	})
	if shared {
		m.note.Notify(notify.Success, "post shared")
	}
	return nil
}

// RecordView counts a single view of an opened post. Anyone may view.
func (m *Manager) RecordView(postID string) {
	m.mutate("record_view", func(cur *Snapshot) *Snapshot {
		i := cur.postIndex(postID)
		if i < 0 {
			return nil
		}
		p := cur.posts[i]
		p.Views++
		return cur.replacePost(i, p)
	})
}

// BumpViews adds a random 0..max views to every post.
func (m *Manager) BumpViews() {
	m.mutate("bump_views", func(cur *Snapshot) *Snapshot {
		if len(cur.posts) == 0 {
			return nil
		}
		posts := slices.Clone(cur.posts)
		for i := range posts {
			if m.maxBump > 0 {
				posts[i].Views += m.rnd.IntN(m.maxBump + 1)
			}
		}
		return cur.withPosts(posts)
	})
}

// ---------- comments ----------

// AddComment appends a comment to an existing post. A missing post yields a
// zero Comment and no error.
func (m *Manager) AddComment(who *domain.Identity, postID, content string) (domain.Comment, error) {
	const op = "add_comment"
	if err := m.authorize(op, who, needInteract, "log in as a member to comment"); err != nil {
		return domain.Comment{}, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		m.metrics.count(op, outcomeInvalid)
		return domain.Comment{}, fmt.Errorf("%s: %w: comment is empty", op, domain.ErrInvalid)
	}

	var c domain.Comment
	added := m.mutate(op, func(cur *Snapshot) *Snapshot {
		if cur.postIndex(postID) < 0 {
			return nil
		}
		c = domain.Comment{
			ID:        m.clk.NewID(),
			PostID:    postID,
			AuthorID:  who.ID,
			Author:    who.Username,
			Content:   content,
			CreatedAt: m.clk.Now(),
		}
		comments := make([]domain.Comment, len(cur.comments), len(cur.comments)+1)
		copy(comments, cur.comments)
		return cur.withComments(append(comments, c))
	})
	if added {
		m.note.Notify(notify.Success, "comment added")
	}
	return c, nil
}

func (m *Manager) DeleteComment(who *domain.Identity, commentID string) error {
	const op = "delete_comment"
	if err := m.authorize(op, who, needAdmin, "only administrators can delete comments"); err != nil {
		return err
	}
	removed := m.mutate(op, func(cur *Snapshot) *Snapshot {
		i := cur.commentIndex(commentID)
		if i < 0 {
			return nil
		}
		return cur.withComments(slices.Delete(slices.Clone(cur.comments), i, i+1))
	})
	if removed {
		m.note.Notify(notify.Success, "comment deleted")
		m.log.Info("comment deleted", zap.String("id", commentID), zap.String("by", who.ID))
	}
	return nil
}

func (m *Manager) LikeComment(who *domain.Identity, commentID string) error {
	const op = "like_comment"
	if err := m.authorize(op, who, needInteract, "log in as a member to like comments"); err != nil {
		return err
	}
	m.mutate(op, func(cur *Snapshot) *Snapshot {
		i := cur.commentIndex(commentID)
		if i < 0 {
			return nil
		}
		c, _ := cur.comments[i].ToggleLike(who.ID)
		return cur.replaceComment(i, c)
	})
	return nil
}
