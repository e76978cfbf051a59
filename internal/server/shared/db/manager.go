package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/feedline/internal/server/images"
	"github.com/dmitrijs2005/feedline/internal/server/likes"
	"github.com/dmitrijs2005/feedline/internal/server/posts"
	"github.com/dmitrijs2005/feedline/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Posts() posts.Repository
	Images() images.Repository
	Likes() likes.Repository
}
