package images

import (
	"context"
)

// Repository stores raw image bytes addressed by id. Read returns
// common.ErrorNotFound for unknown ids; feed assembly treats that as a
// filterable miss, not a failure.
type Repository interface {
	Insert(ctx context.Context, image []byte) (int64, error)
	Read(ctx context.Context, id int64) ([]byte, error)
}
