package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/feedline/internal/common"
	"github.com/dmitrijs2005/feedline/internal/dbx"
)

// PostgresRepository keeps image bytes in a bytea column.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, image []byte) (int64, error) {

	query :=
		`INSERT INTO images (image)
         VALUES ($1)
		 RETURNING id
		 `

	var id int64
	if err := r.db.QueryRowContext(ctx, query, image).Scan(&id); err != nil {
		return 0, fmt.Errorf("error performing sql request: %v", err)
	}

	return id, nil
}

func (r *PostgresRepository) Read(ctx context.Context, id int64) ([]byte, error) {

	query :=
		`SELECT image FROM images
		 WHERE id = $1
		 `

	var image []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&image)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return image, nil
}
