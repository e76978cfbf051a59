package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/feedline/internal/server/config"
	"github.com/dmitrijs2005/feedline/internal/server/images"
	"github.com/dmitrijs2005/feedline/internal/server/likes"
	"github.com/dmitrijs2005/feedline/internal/server/migrations"
	"github.com/dmitrijs2005/feedline/internal/server/posts"
	"github.com/dmitrijs2005/feedline/internal/server/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
	db     *sql.DB
	users  users.Repository
	posts  posts.Repository
	images images.Repository
	likes  likes.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Posts() posts.Repository {
	return m.posts
}

func (m *PostgresRepositoryManager) Images() images.Repository {
	return m.images
}

func (m *PostgresRepositoryManager) Likes() likes.Repository {
	return m.likes
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(cfg *config.Config) (RepositoryManager, error) {

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	users, err := users.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("user repo creation error: %w", err)
	}

	posts, err := posts.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("post repo creation error: %w", err)
	}

	likes, err := likes.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("like repo creation error: %w", err)
	}

	// image bytes either stay in Postgres or move to the object store; ids
	// are allocated in Postgres in both cases
	var imageRepo images.Repository
	switch cfg.ImageStorage {
	case config.ImageStorageS3:
		imageRepo, err = images.NewS3Repository(db, cfg)
	default:
		imageRepo, err = images.NewPostgresRepository(db)
	}
	if err != nil {
		return nil, fmt.Errorf("image repo creation error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:     db,
		users:  users,
		posts:  posts,
		images: imageRepo,
		likes:  likes,
	}

	err = m.RunMigrations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
