package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/anonto42/socialgraph/backend/internal/apperrors"
	"github.com/anonto42/socialgraph/backend/internal/models"
	"github.com/anonto42/socialgraph/backend/internal/repositories"
)

// MaxCommentLength is the longest comment accepted, in characters.
const MaxCommentLength = 500

// Engagement handles likes and comments on posts.
//
// Like and Unlike are separate primitives. A client that wants toggle
// behaviour calls Like and, on apperrors.ErrAlreadyLiked, calls Unlike.
type Engagement struct {
	likes    repositories.LikeRepository
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	users    repositories.UserRepository
	now      func() time.Time
}

func NewEngagement(likes repositories.LikeRepository, comments repositories.CommentRepository, posts repositories.PostRepository, users repositories.UserRepository) *Engagement {
	return &Engagement{
		likes:    likes,
		comments: comments,
		posts:    posts,
		users:    users,
		now:      time.Now,
	}
}

func (s *Engagement) Like(ctx context.Context, actorID, postID uint) error {
	if err := s.requirePost(ctx, postID); err != nil {
		return err
	}

	err := s.likes.CreateLike(ctx, &models.Like{PostID: postID, UserID: actorID, CreatedAt: s.now().UTC()})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrDuplicate):
		return apperrors.ErrAlreadyLiked
	case errors.Is(err, repositories.ErrMissingReference):
		return s.missingReference(ctx, actorID)
	default:
		return fmt.Errorf("like post %d: %w", postID, err)
	}
}

// Unlike removes the like if present.
func (s *Engagement) Unlike(ctx context.Context, actorID, postID uint) error {
	if err := s.likes.DeleteLike(ctx, postID, actorID); err != nil {
		return fmt.Errorf("unlike post %d: %w", postID, err)
	}
	return nil
}

// Comment adds a comment to the post and returns it with its server
// assigned id and timestamp.
func (s *Engagement) Comment(ctx context.Context, actorID, postID uint, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.ErrEmptyContent
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return nil, apperrors.ErrContentTooLong
	}
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:    postID,
		AuthorID:  actorID,
		Content:   text,
		CreatedAt: s.now().UTC(),
	}
	err := s.comments.CreateComment(ctx, comment)
	switch {
	case err == nil:
		return comment, nil
	case errors.Is(err, repositories.ErrMissingReference):
		return nil, s.missingReference(ctx, actorID)
	default:
		return nil, fmt.Errorf("comment on post %d: %w", postID, err)
	}
}

// ListComments returns the post's comments, newest first. The sequence is
// lazy and can be ranged over more than once; each pass reads the store
// again. A missing post is reported before any sequence is returned.
func (s *Engagement) ListComments(ctx context.Context, postID uint) (iter.Seq2[models.CommentView, error], error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.StreamCommentsByPostID(ctx, postID), nil
}

// DeleteComment removes a comment written by the actor.
func (s *Engagement) DeleteComment(ctx context.Context, actorID, commentID uint) error {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return fmt.Errorf("load comment %d: %w", commentID, err)
	}
	if err := AuthorizeDelete(actorID, comment.AuthorID); err != nil {
		return err
	}

	deleted, err := s.comments.DeleteOwnedComment(ctx, commentID, actorID)
	if err != nil {
		return fmt.Errorf("delete comment %d: %w", commentID, err)
	}
	if !deleted {
		return s.resolveMissedCommentDelete(ctx, commentID)
	}
	return nil
}

// resolveMissedCommentDelete explains a conditional delete that matched no
// row: the comment is either gone or no longer the actor's.
func (s *Engagement) resolveMissedCommentDelete(ctx context.Context, commentID uint) error {
	_, err := s.comments.GetCommentByID(ctx, commentID)
	switch {
	case err == nil:
		return apperrors.ErrForbidden
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.ErrCommentNotFound
	default:
		return fmt.Errorf("lookup comment %d: %w", commentID, err)
	}
}

// missingReference decides which side of a foreign key violation is gone.
// The actor's account can be deleted while their token is still valid.
func (s *Engagement) missingReference(ctx context.Context, actorID uint) error {
	exists, err := s.users.Exists(ctx, actorID)
	if err != nil {
		return fmt.Errorf("lookup user %d: %w", actorID, err)
	}
	if !exists {
		return apperrors.ErrUserNotFound
	}
	return apperrors.ErrPostNotFound
}

func (s *Engagement) requirePost(ctx context.Context, postID uint) error {
	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return fmt.Errorf("lookup post %d: %w", postID, err)
	}
	if !exists {
		return apperrors.ErrPostNotFound
	}
	return nil
}
