package forum

import (
	"slices"

	"lottery-forum/internal/domain"
)

// Snapshot is one immutable version of the forum. Posts are newest first,
// comments in insertion order. Accessors return copies.
type Snapshot struct {
	posts    []domain.Post
	comments []domain.Comment
}

func NewSnapshot(posts []domain.Post, comments []domain.Comment) *Snapshot {
	return &Snapshot{posts: slices.Clone(posts), comments: slices.Clone(comments)}
}

func (s *Snapshot) Posts() []domain.Post { return slices.Clone(s.posts) }

func (s *Snapshot) Comments() []domain.Comment { return slices.Clone(s.comments) }

func (s *Snapshot) Post(id string) (domain.Post, bool) {
	if i := s.postIndex(id); i >= 0 {
		return s.posts[i], true
	}
	return domain.Post{}, false
}

func (s *Snapshot) Comment(id string) (domain.Comment, bool) {
	if i := s.commentIndex(id); i >= 0 {
		return s.comments[i], true
	}
	return domain.Comment{}, false
}

func (s *Snapshot) ByCategory(c domain.Category) []domain.Post {
	out := make([]domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

func (s *Snapshot) CommentsFor(postID string) []domain.Comment {
	out := []domain.Comment{}
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out
}

func (s *Snapshot) postIndex(id string) int {
	return slices.IndexFunc(s.posts, func(p domain.Post) bool { return p.ID == id })
}

func (s *Snapshot) commentIndex(id string) int {
	return slices.IndexFunc(s.comments, func(c domain.Comment) bool { return c.ID == id })
}

// The helpers below build the next snapshot; the receiver is never modified.

func (s *Snapshot) withPosts(posts []domain.Post) *Snapshot {
	return &Snapshot{posts: posts, comments: s.comments}
}

func (s *Snapshot) withComments(comments []domain.Comment) *Snapshot {
	return &Snapshot{posts: s.posts, comments: comments}
}

func (s *Snapshot) replacePost(i int, p domain.Post) *Snapshot {
	posts := slices.Clone(s.posts)
	posts[i] = p
	return s.withPosts(posts)
}

func (s *Snapshot) replaceComment(i int, c domain.Comment) *Snapshot {
	comments := slices.Clone(s.comments)
	comments[i] = c
	return s.withComments(comments)
}
