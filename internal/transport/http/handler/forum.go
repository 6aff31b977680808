package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"lottery-forum/internal/domain"
	"lottery-forum/internal/forum"
	"lottery-forum/internal/transport/http/ez"
)

// Forum mounts the member-facing board: feed, post detail and interactions.
// Role checks happen in the Manager so denied attempts raise notices.
type Forum struct {
	M *forum.Manager
	R *forum.Refresher
	// Base bounds pending view refreshes; they are dropped once it ends.
	Base context.Context
}

func NewForum(m *forum.Manager, r *forum.Refresher, base context.Context) *Forum {
	if base == nil {
		base = context.Background()
	}
	return &Forum{M: m, R: r, Base: base}
}

func (*Forum) Priority() int { return 20 }

// PostView is a post with its comments in insertion order.
type PostView struct {
	domain.Post
	Comments []domain.Comment `json:"comments"`
}

func viewOf(s *forum.Snapshot, p domain.Post) PostView {
	return PostView{Post: p, Comments: s.CommentsFor(p.ID)}
}

type feedQ struct {
	Category string `form:"category"`
}

type createPostIn struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type commentIn struct {
	Content string `json:"content"`
}

func (h *Forum) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api)

	ez.RegisterAction(e, ez.Action[feedQ, []PostView]{
		Method: http.MethodGet,
		Path:   "/posts",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *feedQ) ([]PostView, error) {
			s := h.M.Snapshot()
			posts := s.Posts()
			if in.Category != "" {
				cat, err := domain.ParseCategory(in.Category)
				if err != nil {
					return nil, err
				}
				posts = s.ByCategory(cat)
			}
			out := make([]PostView, 0, len(posts))
			for _, p := range posts {
				out = append(out, viewOf(s, p))
			}
			if h.R != nil {
				h.R.Arm(h.Base, viewerKey(c))
			}
			return out, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, PostView]{
		Method: http.MethodGet,
		Path:   "/posts/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (PostView, error) {
			id := c.Param("id")
			h.M.RecordView(id)
			return h.postView(id)
		},
	})

	ez.RegisterAction(e, ez.Action[createPostIn, domain.Post]{
		Method: http.MethodPost,
		Path:   "/posts",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *createPostIn) (domain.Post, error) {
			return h.M.CreatePost(ez.Actor(c), in.Title, in.Content, domain.Category(in.Category))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, PostView]{
		Method: http.MethodPost,
		Path:   "/posts/:id/like",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (PostView, error) {
			if err := h.M.LikePost(ez.Actor(c), c.Param("id")); err != nil {
				return PostView{}, err
			}
			return h.postView(c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, PostView]{
		Method: http.MethodPost,
		Path:   "/posts/:id/share",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (PostView, error) {
			if err := h.M.SharePost(ez.Actor(c), c.Param("id")); err != nil {
				return PostView{}, err
			}
			return h.postView(c.Param("id"))
		},
	})

	ez.POST(e, "/posts/:id/comments", func(c *gin.Context, in commentIn) (any, error) {
		cm, err := h.M.AddComment(ez.Actor(c), c.Param("id"), in.Content)
		if err != nil {
			return nil, err
		}
		if cm.ID == "" {
			return nil, ez.NotFound("post not found")
		}
		return cm, nil
	})

	ez.RegisterAction(e, ez.Action[struct{}, domain.Comment]{
		Method: http.MethodPost,
		Path:   "/comments/:id/like",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Comment, error) {
			if err := h.M.LikeComment(ez.Actor(c), c.Param("id")); err != nil {
				return domain.Comment{}, err
			}
			cm, ok := h.M.Snapshot().Comment(c.Param("id"))
			if !ok {
				return domain.Comment{}, ez.NotFound("comment not found")
			}
			return cm, nil
		},
	})
}

func (h *Forum) postView(id string) (PostView, error) {
	s := h.M.Snapshot()
	p, ok := s.Post(id)
	if !ok {
		return PostView{}, ez.NotFound("post not found")
	}
	return viewOf(s, p), nil
}

// viewerKey identifies whose listing a refresh belongs to: the member id, or
// the client address for anonymous readers.
func viewerKey(c *gin.Context) string {
	if who := ez.Actor(c); who != nil {
		return "id:" + who.ID
	}
	return "ip:" + c.ClientIP()
}
