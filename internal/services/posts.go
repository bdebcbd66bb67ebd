package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/anonto42/socialgraph/backend/internal/apperrors"
	"github.com/anonto42/socialgraph/backend/internal/models"
	"github.com/anonto42/socialgraph/backend/internal/repositories"
)

// MaxPostLength is the longest post accepted, in characters.
const MaxPostLength = 2200

// Posts creates and deletes posts. Content is immutable after creation.
type Posts struct {
	posts repositories.PostRepository
	now   func() time.Time
}

func NewPosts(posts repositories.PostRepository) *Posts {
	return &Posts{posts: posts, now: time.Now}
}

// Create stores a new post. imageURL must already point at uploaded content;
// no upload happens while the insert is in flight.
func (s *Posts) Create(ctx context.Context, actorID uint, content string, imageURL *string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if imageURL != nil && strings.TrimSpace(*imageURL) == "" {
		imageURL = nil
	}
	if content == "" && imageURL == nil {
		return nil, apperrors.ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxPostLength {
		return nil, apperrors.ErrContentTooLong
	}

	post := &models.Post{
		AuthorID:  actorID,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: s.now().UTC(),
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrMissingReference) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// Delete removes a post written by the actor along with its likes and
// comments.
func (s *Posts) Delete(ctx context.Context, actorID, postID uint) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrPostNotFound
		}
		return fmt.Errorf("load post %d: %w", postID, err)
	}
	if err := AuthorizeDelete(actorID, post.AuthorID); err != nil {
		return err
	}

	deleted, err := s.posts.DeleteOwnedPost(ctx, postID, actorID)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", postID, err)
	}
	if !deleted {
		return s.resolveMissedDelete(ctx, postID)
	}
	return nil
}

// resolveMissedDelete explains a conditional delete that matched no row.
// Posts never change owner, so in practice the post is gone.
func (s *Posts) resolveMissedDelete(ctx context.Context, postID uint) error {
	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return fmt.Errorf("lookup post %d: %w", postID, err)
	}
	if exists {
		return apperrors.ErrForbidden
	}
	return apperrors.ErrPostNotFound
}
