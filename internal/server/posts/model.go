package posts

import "time"

type Post struct {
	ID              int64
	Title           string
	Text            string
	Tags            []string
	ImageIDs        []int64
	UserID          int64
	CreatedAt       time.Time
	AttachedArticle *string
}
