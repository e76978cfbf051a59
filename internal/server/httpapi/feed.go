package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/feedline/internal/server/feed"
	"github.com/dmitrijs2005/feedline/internal/server/likes"
)

const (
	defaultOffset = 0
	defaultLimit  = 10
)

func int64QueryParam(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Query(name), 10, 64)
}

func (s *Server) readFeed(c *gin.Context) {

	offset := int64(defaultOffset)
	if v := c.Query("offset"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		offset = parsed
	}

	limit := defaultLimit
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	var viewerID *int64
	if principal, ok := currentPrincipal(c); ok {
		viewerID = &principal.UserID
	}

	items, err := s.feed.ReadPage(c.Request.Context(), offset, limit, viewerID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (s *Server) likePost(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	postID, err := int64QueryParam(c, "postId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid postId"})
		return
	}

	outcome, err := s.ledger.Like(c.Request.Context(), principal.UserID, postID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if outcome == likes.AlreadyLiked {
		c.JSON(http.StatusOK, gin.H{"message": "post is already liked"})
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) unlikePost(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	postID, err := int64QueryParam(c, "postId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid postId"})
		return
	}

	outcome, err := s.ledger.Unlike(c.Request.Context(), principal.UserID, postID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if outcome == likes.NotLiked {
		c.JSON(http.StatusOK, gin.H{"message": "post is not liked"})
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) createPost(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req feed.NewPost
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	postID, err := s.feed.CreatePost(c.Request.Context(), &req, principal.UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"postId": postID})
}
