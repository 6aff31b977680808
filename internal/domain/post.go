package domain

import (
	"fmt"
	"time"
)

type Category string

const (
	CategoryTip        Category = "tip"
	CategoryStatistics Category = "statistics"
)

func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryTip, CategoryStatistics:
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalid, s)
}

// Post is a value: the forum hands out copies and never mutates a published one.
// Likes always equals LikedBy.Len().
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	AuthorID  string    `json:"authorId"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     int       `json:"likes"`
	Shares    int       `json:"shares"`
	Views     int       `json:"views"`
	LikedBy   LikeSet   `json:"likedBy"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     int       `json:"likes"`
	LikedBy   LikeSet   `json:"likedBy"`
}

// ToggleLike flips uid's membership in the post's like set and returns the
// updated copy along with whether the like was added.
func (p Post) ToggleLike(uid string) (Post, bool) {
	set, added := p.LikedBy.Toggle(uid)
	p.LikedBy = set
	p.Likes = set.Len()
	return p, added
}

func (c Comment) ToggleLike(uid string) (Comment, bool) {
	set, added := c.LikedBy.Toggle(uid)
	c.LikedBy = set
	c.Likes = set.Len()
	return c, added
}
