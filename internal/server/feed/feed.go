// Package feed assembles the paginated, viewer-scoped feed. The aggregator
// owns no persistent state; it is a read composition over the post, image
// and like collaborators, plus the matching write path for new posts.
package feed

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/feedline/internal/common"
	"github.com/dmitrijs2005/feedline/internal/server/images"
	"github.com/dmitrijs2005/feedline/internal/server/likes"
	"github.com/dmitrijs2005/feedline/internal/server/posts"
)

const (
	MinLimit = 1
	MaxLimit = 100

	maxTitleLen   = 40
	maxTextLen    = 1024
	maxArticleLen = 200
)

// Item is one enriched feed entry. IsLiked is nil for anonymous viewers,
// which is distinct from false for an authenticated viewer who has not liked
// the post. Image bytes travel base64-encoded in JSON.
type Item struct {
	PostID          int64    `json:"postId"`
	IsLiked         *bool    `json:"isLiked"`
	Title           string   `json:"title"`
	Text            string   `json:"text"`
	Tags            []string `json:"tags"`
	Images          [][]byte `json:"images"`
	UserID          int64    `json:"userId"`
	AttachedArticle *string  `json:"attachedNewsArticle"`
}

// NewPost is the write-path payload.
type NewPost struct {
	Title           string   `json:"title"`
	Text            string   `json:"text"`
	Tags            []string `json:"tags"`
	Images          [][]byte `json:"images"`
	AttachedArticle *string  `json:"attachedNewsArticle"`
}

type Aggregator struct {
	posts  posts.Repository
	images images.Repository
	ledger *likes.Ledger
}

func NewAggregator(p posts.Repository, i images.Repository, l *likes.Ledger) *Aggregator {
	return &Aggregator{posts: p, images: i, ledger: l}
}

// ReadPage returns one feed page in base-query order. Every post's image
// resolutions and (for authenticated viewers) its like-state lookup run
// concurrently; the page is emitted only after all of them join. A missing
// image is filtered from its post, a failed like lookup fails the whole page
// and cancels the remaining in-flight lookups. No partial page is returned.
func (a *Aggregator) ReadPage(ctx context.Context, offset int64, limit int, viewerID *int64) ([]*Item, error) {

	if offset < 0 {
		return nil, fmt.Errorf("%w: invalid offset", common.ErrorValidation)
	}
	if limit < MinLimit || limit > MaxLimit {
		return nil, fmt.Errorf("%w: invalid limit", common.ErrorValidation)
	}

	page, err := a.posts.ReadLatest(ctx, offset, limit)
	if err != nil {
		return nil, common.ErrorInternal
	}

	items := make([]*Item, len(page))
	resolved := make([][][]byte, len(page))

	g, ctx := errgroup.WithContext(ctx)

	for i, post := range page {
		items[i] = &Item{
			PostID:          post.ID,
			Title:           post.Title,
			Text:            post.Text,
			Tags:            post.Tags,
			UserID:          post.UserID,
			AttachedArticle: post.AttachedArticle,
		}
		resolved[i] = make([][]byte, len(post.ImageIDs))

		for j, imageID := range post.ImageIDs {
			g.Go(func() error {
				data, err := a.images.Read(ctx, imageID)
				if err != nil {
					// filter-not-found policy: the slot stays empty
					if errors.Is(err, common.ErrorNotFound) {
						return nil
					}
					return err
				}
				resolved[i][j] = data
				return nil
			})
		}

		if viewerID != nil {
			item := items[i]
			postID := post.ID
			g.Go(func() error {
				liked, err := a.ledger.IsLiked(ctx, *viewerID, postID)
				if err != nil {
					return err
				}
				item.IsLiked = &liked
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, common.ErrorInternal
	}

	// drop the filtered slots, keeping intra-post image order
	for i := range items {
		imgs := make([][]byte, 0, len(resolved[i]))
		for _, data := range resolved[i] {
			if data != nil {
				imgs = append(imgs, data)
			}
		}
		items[i].Images = imgs
	}

	return items, nil
}

// CreatePost validates the payload, stores its images concurrently and then
// inserts the post row referencing the obtained ids. Validation failures
// happen before any write.
func (a *Aggregator) CreatePost(ctx context.Context, p *NewPost, authorID int64) (int64, error) {

	if n := utf8.RuneCountInString(p.Title); n < 1 || n > maxTitleLen {
		return 0, fmt.Errorf("%w: title length must be 1..%d", common.ErrorValidation, maxTitleLen)
	}
	if n := utf8.RuneCountInString(p.Text); n < 1 || n > maxTextLen {
		return 0, fmt.Errorf("%w: text length must be 1..%d", common.ErrorValidation, maxTextLen)
	}
	if p.AttachedArticle != nil && utf8.RuneCountInString(*p.AttachedArticle) > maxArticleLen {
		return 0, fmt.Errorf("%w: attached article is too long", common.ErrorValidation)
	}

	imageIDs := make([]int64, len(p.Images))

	g, gctx := errgroup.WithContext(ctx)
	for i, img := range p.Images {
		g.Go(func() error {
			id, err := a.images.Insert(gctx, img)
			if err != nil {
				return err
			}
			imageIDs[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, common.ErrorInternal
	}

	id, err := a.posts.Create(ctx, &posts.Post{
		Title:           p.Title,
		Text:            p.Text,
		Tags:            p.Tags,
		ImageIDs:        imageIDs,
		UserID:          authorID,
		AttachedArticle: p.AttachedArticle,
	})
	if err != nil {
		return 0, common.ErrorInternal
	}

	return id, nil
}
