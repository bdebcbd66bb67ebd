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
	defaultSearchLimit = 20
	maxSearchLimit     = 50
	profilePostCount   = 20
)

// Users serves account lookups and profile maintenance.
type Users struct {
	users repositories.UserRepository
	posts repositories.PostRepository
	graph *SocialGraph
}

func NewUsers(users repositories.UserRepository, posts repositories.PostRepository, graph *SocialGraph) *Users {
	return &Users{users: users, posts: posts, graph: graph}
}

// Search returns users whose username contains query, ignoring case.
func (s *Users) Search(ctx context.Context, query string, limit int) ([]models.UserCompact, error) {
	if limit < 1 || limit > maxSearchLimit {
		limit = defaultSearchLimit
	}
	users, err := s.users.SearchUsers(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	out := make([]models.UserCompact, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToCompact())
	}
	return out, nil
}

// Profile returns userID as seen by viewerID, including the most recent
// posts.
func (s *Users) Profile(ctx context.Context, viewerID, userID uint) (*models.Profile, error) {
	user, err := s.Account(ctx, userID)
	if err != nil {
		return nil, err
	}

	followers, following, err := s.graph.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}
	postCount, err := s.posts.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	var isFollowing bool
	if viewerID != userID {
		if isFollowing, err = s.graph.IsFollowing(ctx, viewerID, userID); err != nil {
			return nil, err
		}
	}

	rows, err := s.posts.GetPostsByAuthor(ctx, viewerID, userID, profilePostCount, 0)
	if err != nil {
		return nil, fmt.Errorf("load recent posts: %w", err)
	}

	return &models.Profile{
		UserCompact:    user.ToCompact(),
		Bio:            user.Bio,
		PostCount:      postCount,
		FollowerCount:  followers,
		FollowingCount: following,
		IsFollowing:    isFollowing,
		IsSelf:         viewerID == userID,
		Posts:          toFeedPosts(rows, viewerID),
	}, nil
}

func (s *Users) Account(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	return user, nil
}

// UpdateProfile changes the fields that are set and returns the account.
func (s *Users) UpdateProfile(ctx context.Context, userID uint, bio, profileImageURL *string) (*models.User, error) {
	if err := s.users.UpdateProfile(ctx, userID, bio, profileImageURL); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.Account(ctx, userID)
}

// Delete removes the account and, through the store's cascades, everything
// it authored or followed.
func (s *Users) Delete(ctx context.Context, userID uint) error {
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("delete user %d: %w", userID, err)
	}
	return nil
}
