package likes

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/feedline/internal/common"
	"github.com/dmitrijs2005/feedline/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres class 23505, unique_violation.
const uniqueViolationCode = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, userID, postID int64) (int64, error) {

	query :=
		`INSERT INTO likes (user_id, post_id)
         VALUES ($1, $2)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query, userID, postID).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return 0, common.ErrorConflict
		}
		return 0, fmt.Errorf("error performing sql request: %v", err)
	}

	return id, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, userID, postID int64) (bool, error) {

	query :=
		`SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND post_id = $2)
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, postID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error performing sql request: %v", err)
	}

	return exists, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, postID int64) error {

	query :=
		`DELETE FROM likes
		 WHERE user_id = $1 AND post_id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}
