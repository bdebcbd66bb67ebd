package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/socialgraph/backend/internal/apperrors"
	"github.com/anonto42/socialgraph/backend/internal/models"
	"github.com/anonto42/socialgraph/backend/internal/repositories"
)

// SocialGraph maintains the follow graph.
type SocialGraph struct {
	follows repositories.FollowRepository
	users   repositories.UserRepository
}

func NewSocialGraph(follows repositories.FollowRepository, users repositories.UserRepository) *SocialGraph {
	return &SocialGraph{follows: follows, users: users}
}

// Follow records that actor follows target. Whether the pair already exists
// is decided by the insert itself, so of two concurrent calls for the same
// pair exactly one succeeds.
func (s *SocialGraph) Follow(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return apperrors.ErrSelfFollow
	}

	exists, err := s.users.Exists(ctx, targetID)
	if err != nil {
		return fmt.Errorf("lookup user %d: %w", targetID, err)
	}
	if !exists {
		return apperrors.ErrUserNotFound
	}

	err = s.follows.CreateFollow(ctx, &models.Follow{FollowerID: actorID, FollowingID: targetID})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrDuplicate):
		return apperrors.ErrAlreadyFollowing
	case errors.Is(err, repositories.ErrMissingReference):
		return apperrors.ErrUserNotFound
	default:
		return fmt.Errorf("follow user %d: %w", targetID, err)
	}
}

// Unfollow removes the pair if present.
func (s *SocialGraph) Unfollow(ctx context.Context, actorID, targetID uint) error {
	if err := s.follows.DeleteFollow(ctx, actorID, targetID); err != nil {
		return fmt.Errorf("unfollow user %d: %w", targetID, err)
	}
	return nil
}

func (s *SocialGraph) IsFollowing(ctx context.Context, actorID, targetID uint) (bool, error) {
	ok, err := s.follows.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return false, fmt.Errorf("check follow %d->%d: %w", actorID, targetID, err)
	}
	return ok, nil
}

// Counts returns how many accounts follow userID and how many it follows.
func (s *SocialGraph) Counts(ctx context.Context, userID uint) (followers, following int64, err error) {
	if followers, err = s.follows.GetFollowersCount(ctx, userID); err != nil {
		return 0, 0, fmt.Errorf("count followers: %w", err)
	}
	if following, err = s.follows.GetFollowingCount(ctx, userID); err != nil {
		return 0, 0, fmt.Errorf("count following: %w", err)
	}
	return followers, following, nil
}
