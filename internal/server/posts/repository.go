package posts

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, post *Post) (int64, error)

	// ReadLatest returns posts ordered by creation time descending, offset
	// skipped, at most limit returned. Relative order of posts sharing a
	// timestamp is store-defined.
	ReadLatest(ctx context.Context, offset int64, limit int) ([]*Post, error)
}
