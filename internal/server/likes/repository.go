package likes

import (
	"context"
)

type Repository interface {
	// Insert adds a like row and returns its id. When a row for the pair
	// already exists it must return common.ErrorConflict.
	Insert(ctx context.Context, userID, postID int64) (int64, error)
	Exists(ctx context.Context, userID, postID int64) (bool, error)
	Delete(ctx context.Context, userID, postID int64) error
}
