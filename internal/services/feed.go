package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/socialgraph/backend/internal/apperrors"
	"github.com/anonto42/socialgraph/backend/internal/models"
	"github.com/anonto42/socialgraph/backend/internal/repositories"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
	// MaxPageNumber keeps Offset well inside int range.
	MaxPageNumber = 1 << 24
)

// Page selects a window of a newest-first listing. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page into range: Number below 1 becomes 1, Number
// above MaxPageNumber becomes MaxPageNumber and a Size outside
// 1..MaxPageSize becomes DefaultPageSize.
func (p Page) Normalize() Page {
	return p.normalize(DefaultPageSize)
}

func (p Page) normalize(defaultSize int) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size < 1 || p.Size > MaxPageSize {
		p.Size = defaultSize
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// FeedPage is one page of annotated posts plus the size of the whole listing.
type FeedPage struct {
	Posts []models.FeedPost
	Total int64
	Page  Page
}

// TotalPages is the number of pages of Page.Size needed for Total posts.
func (f FeedPage) TotalPages() int {
	if f.Page.Size == 0 {
		return 0
	}
	return int((f.Total + int64(f.Page.Size) - 1) / int64(f.Page.Size))
}

func (f FeedPage) HasNext() bool {
	return f.Page.Number < f.TotalPages()
}

// Feed assembles annotated post listings for a viewing principal.
type Feed struct {
	posts    repositories.PostRepository
	pageSize int
}

// NewFeed serves pages of pageSize posts when the caller asks for none; a
// pageSize outside 1..MaxPageSize means DefaultPageSize.
func NewFeed(posts repositories.PostRepository, pageSize int) *Feed {
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return &Feed{posts: posts, pageSize: pageSize}
}

// GetFeed returns the principal's own posts together with the posts of every
// account the principal follows, newest first. An empty feed is not an error.
func (s *Feed) GetFeed(ctx context.Context, principalID uint, page Page) (*FeedPage, error) {
	page = page.normalize(s.pageSize)

	rows, err := s.posts.GetFeed(ctx, principalID, page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	total, err := s.posts.CountFeed(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("count feed: %w", err)
	}

	return &FeedPage{
		Posts: toFeedPosts(rows, principalID),
		Total: total,
		Page:  page,
	}, nil
}

// GetPost returns a single post annotated for the viewer.
func (s *Feed) GetPost(ctx context.Context, viewerID, postID uint) (*models.FeedPost, error) {
	row, err := s.posts.GetAnnotatedPost(ctx, viewerID, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("load post %d: %w", postID, err)
	}
	post := row.ToFeedPost(viewerID)
	return &post, nil
}

// UserPosts lists the posts written by authorID, newest first.
func (s *Feed) UserPosts(ctx context.Context, viewerID, authorID uint, page Page) (*FeedPage, error) {
	page = page.normalize(s.pageSize)

	rows, err := s.posts.GetPostsByAuthor(ctx, viewerID, authorID, page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("load posts of user %d: %w", authorID, err)
	}
	total, err := s.posts.CountByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("count posts of user %d: %w", authorID, err)
	}

	return &FeedPage{
		Posts: toFeedPosts(rows, viewerID),
		Total: total,
		Page:  page,
	}, nil
}

func toFeedPosts(rows []models.FeedRow, viewerID uint) []models.FeedPost {
	posts := make([]models.FeedPost, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.ToFeedPost(viewerID))
	}
	return posts
}
