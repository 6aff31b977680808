package forum

import (
	"strconv"
	"time"

	"lottery-forum/internal/domain"
)

// Seed returns the demo board shown on a fresh start: one tip post and one
// statistics post, each with a member comment. Existing like counts are
// represented by placeholder liker ids so Likes matches LikedBy.
func Seed(now time.Time) *Snapshot {
	posts := []domain.Post{
		{
			ID:    "1",
			Title: "Hot numbers for the 16/01/2567 draw",
			Content: "Picks for this draw: 123, 456, 789\n\n" +
				"Worked out from the online guides and past results.\n" +
				"Suggest playing the 2-digit bottom and the 3-digit top.\n\n" +
				"Good luck! 🍀",
			Category:  domain.CategoryTip,
			AuthorID:  "1",
			Author:    "admin",
			CreatedAt: now.Add(-30 * time.Minute),
			Shares:    8,
			Views:     156,
			LikedBy:   seedLikers("p1", 15),
		},
		{
			ID:    "2",
			Title: "Results of the last 5 draws",
			Content: "16/01/67: 123456\n01/01/67: 987654\n16/12/66: 456789\n" +
				"01/12/66: 321654\n16/11/66: 789123\n\n" +
				"Digits 1, 2 and 3 keep coming up. Worth watching!",
			Category:  domain.CategoryStatistics,
			AuthorID:  "1",
			Author:    "admin",
			CreatedAt: now.Add(-2 * time.Hour),
			Shares:    12,
			Views:     234,
			LikedBy:   seedLikers("p2", 23),
		},
	}
	comments := []domain.Comment{
		{
			ID:        "1",
			PostID:    "1",
			AuthorID:  "2",
			Author:    "member1",
			Content:   "Thanks, great numbers!",
			CreatedAt: now.Add(-15 * time.Minute),
			LikedBy:   seedLikers("c1", 3),
		},
		{
			ID:        "2",
			PostID:    "2",
			AuthorID:  "3",
			Author:    "member2",
			Content:   "Really interesting stats, thanks for sharing.",
			CreatedAt: now.Add(-45 * time.Minute),
			LikedBy:   seedLikers("c2", 5),
		},
	}
	for i := range posts {
		posts[i].Likes = posts[i].LikedBy.Len()
	}
	for i := range comments {
		comments[i].Likes = comments[i].LikedBy.Len()
	}
	return NewSnapshot(posts, comments)
}

func seedLikers(prefix string, n int) domain.LikeSet {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = "seed-" + prefix + "-" + strconv.Itoa(i+1)
	}
	return domain.NewLikeSet(ids...)
}
