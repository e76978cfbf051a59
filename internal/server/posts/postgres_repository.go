package posts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/feedline/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

// tags and image ids live in JSONB columns; the stdlib driver has no native
// Postgres array support.
func marshalList[T any](list []T) ([]byte, error) {
	if list == nil {
		list = []T{}
	}
	return json.Marshal(list)
}

func (r *PostgresRepository) Create(ctx context.Context, post *Post) (int64, error) {

	tags, err := marshalList(post.Tags)
	if err != nil {
		return 0, fmt.Errorf("error encoding tags: %v", err)
	}
	images, err := marshalList(post.ImageIDs)
	if err != nil {
		return 0, fmt.Errorf("error encoding image ids: %v", err)
	}

	query :=
		`INSERT INTO posts (title, text, tags, images, user_id, attached_article)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	var id int64
	err = r.db.QueryRowContext(ctx, query,
		post.Title, post.Text, tags, images, post.UserID, post.AttachedArticle).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %v", err)
	}

	return id, nil
}

func (r *PostgresRepository) ReadLatest(ctx context.Context, offset int64, limit int) ([]*Post, error) {

	query :=
		`SELECT id, title, text, tags, images, user_id, created_at, attached_article FROM posts
		 ORDER BY created_at DESC
		 OFFSET $1 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var result []*Post

	for rows.Next() {
		post := &Post{}
		var tags, images []byte

		err := rows.Scan(&post.ID, &post.Title, &post.Text, &tags, &images,
			&post.UserID, &post.CreatedAt, &post.AttachedArticle)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}

		if err := json.Unmarshal(tags, &post.Tags); err != nil {
			return nil, fmt.Errorf("error decoding tags: %v", err)
		}
		if err := json.Unmarshal(images, &post.ImageIDs); err != nil {
			return nil, fmt.Errorf("error decoding image ids: %v", err)
		}

		result = append(result, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return result, nil
}
