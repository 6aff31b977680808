package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"lottery-forum/internal/domain"
	"lottery-forum/internal/feature/member"
	"lottery-forum/internal/forum"
	"lottery-forum/internal/transport/http/ez"
)

// Admin mounts the moderation panel. The admin group already requires the
// admin role; the Manager checks it again for deletions.
type Admin struct {
	M   *forum.Manager
	Dir *member.Directory
}

func NewAdmin(m *forum.Manager, dir *member.Directory) *Admin { return &Admin{M: m, Dir: dir} }

// PostRow is a post as listed in the panel.
type PostRow struct {
	domain.Post
	CommentCount int `json:"commentCount"`
}

// CommentRow is a comment with the title of the post it belongs to.
type CommentRow struct {
	domain.Comment
	PostTitle string `json:"postTitle"`
}

type membersQ struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"`
}

func (h *Admin) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin)

	e.GET("/posts", func(c *gin.Context) (any, error) {
		s := h.M.Snapshot()
		posts := s.Posts()
		out := make([]PostRow, 0, len(posts))
		for _, p := range posts {
			out = append(out, PostRow{Post: p, CommentCount: len(s.CommentsFor(p.ID))})
		}
		return out, nil
	})

	e.GET("/comments", func(c *gin.Context) (any, error) {
		s := h.M.Snapshot()
		comments := s.Comments()
		out := make([]CommentRow, 0, len(comments))
		for _, cm := range comments {
			row := CommentRow{Comment: cm}
			if p, ok := s.Post(cm.PostID); ok {
				row.PostTitle = p.Title
			}
			out = append(out, row)
		}
		return out, nil
	})

	e.DELETE("/posts/:id", func(c *gin.Context) (any, error) {
		id := c.Param("id")
		if _, ok := h.M.Snapshot().Post(id); !ok {
			return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
		}
		if err := h.M.DeletePost(ez.Actor(c), id); err != nil {
			return nil, err
		}
		return gin.H{"id": id}, nil
	})

	e.DELETE("/comments/:id", func(c *gin.Context) (any, error) {
		id := c.Param("id")
		if _, ok := h.M.Snapshot().Comment(id); !ok {
			return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
		}
		if err := h.M.DeleteComment(ez.Actor(c), id); err != nil {
			return nil, err
		}
		return gin.H{"id": id}, nil
	})

	ez.RegisterAction(e, ez.Action[membersQ, member.Page]{
		Method: http.MethodGet,
		Path:   "/members",
		Binder: ez.BindQuery,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *membersQ) (member.Page, error) {
			if h.Dir == nil {
				return member.Page{Items: []domain.Identity{}}, nil
			}
			p, err := h.Dir.List(c.Request.Context(), domain.MemberQuery{Offset: in.Offset, Limit: in.Limit, Q: in.Q})
			if err != nil {
				return member.Page{}, ez.Internal("list members failed", err)
			}
			return p, nil
		},
	})
}
