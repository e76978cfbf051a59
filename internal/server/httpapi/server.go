// Package httpapi is the HTTP boundary of the Feedline server. Handlers only
// translate between the wire and the services; every success/failure category
// is carried by the status code.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/feedline/internal/common"
	"github.com/dmitrijs2005/feedline/internal/logging"
	"github.com/dmitrijs2005/feedline/internal/server/auth"
	"github.com/dmitrijs2005/feedline/internal/server/feed"
	"github.com/dmitrijs2005/feedline/internal/server/likes"
	"github.com/dmitrijs2005/feedline/internal/server/users"
)

type Server struct {
	address string
	logger  logging.Logger
	engine  *gin.Engine

	users  *users.Service
	feed   *feed.Aggregator
	ledger *likes.Ledger
	tokens *auth.TokenService
}

func NewServer(address string, l logging.Logger, us *users.Service, fa *feed.Aggregator, ll *likes.Ledger, ts *auth.TokenService) *Server {

	s := &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		users:   us,
		feed:    fa,
		ledger:  ll,
		tokens:  ts,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	api := r.Group("/api")

	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)

	api.GET("/user", s.getUserInfo)

	feedGroup := api.Group("/feed")
	feedGroup.GET("", s.optionalAuth(), s.readFeed)

	protected := feedGroup.Group("")
	protected.Use(s.requireAuth())
	protected.POST("/like", s.likePost)
	protected.DELETE("/like", s.unlikePost)
	protected.POST("/new", s.createPost)

	s.engine = r
	return s
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		_ = srv.Shutdown(context.Background())
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// respondError maps service sentinels to status codes. Unknown errors are
// reported as a generic server fault; internals never reach the client.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrorConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		s.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
