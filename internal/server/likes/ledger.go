// Package likes enforces the at-most-one-like-per-(user,post) toggle.
// Storage only provides row operations; the idempotent contract lives here.
package likes

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/feedline/internal/common"
)

// LikeOutcome reports what a Like call actually did.
type LikeOutcome int

const (
	LikeCreated LikeOutcome = iota
	AlreadyLiked
)

// UnlikeOutcome reports what an Unlike call actually did.
type UnlikeOutcome int

const (
	LikeRemoved UnlikeOutcome = iota
	NotLiked
)

type Ledger struct {
	repo Repository
}

func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// Like records a like for the pair. Liking an already liked post is a no-op
// reported as AlreadyLiked, never an error. The check-then-act here is not
// serialized; two concurrent calls can both pass the Exists check, and the
// storage uniqueness constraint is the backstop; its conflict is folded
// into AlreadyLiked as well.
func (l *Ledger) Like(ctx context.Context, userID, postID int64) (LikeOutcome, error) {

	liked, err := l.repo.Exists(ctx, userID, postID)
	if err != nil {
		return 0, common.ErrorInternal
	}
	if liked {
		return AlreadyLiked, nil
	}

	if _, err := l.repo.Insert(ctx, userID, postID); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return AlreadyLiked, nil
		}
		return 0, common.ErrorInternal
	}

	return LikeCreated, nil
}

// Unlike removes the like for the pair; absence is reported as NotLiked,
// never an error.
func (l *Ledger) Unlike(ctx context.Context, userID, postID int64) (UnlikeOutcome, error) {

	liked, err := l.repo.Exists(ctx, userID, postID)
	if err != nil {
		return 0, common.ErrorInternal
	}
	if !liked {
		return NotLiked, nil
	}

	if err := l.repo.Delete(ctx, userID, postID); err != nil {
		return 0, common.ErrorInternal
	}

	return LikeRemoved, nil
}

// IsLiked reports the viewer-scoped like state for a post.
func (l *Ledger) IsLiked(ctx context.Context, userID, postID int64) (bool, error) {
	return l.repo.Exists(ctx, userID, postID)
}
