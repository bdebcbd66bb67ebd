package repositories

import (
	"context"

	"github.com/anonto42/socialgraph/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID, followingID uint) error
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	GetFollowersCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a gorm backed FollowRepository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// CreateFollow inserts the pair; a concurrent or repeated insert of the same
// pair surfaces as ErrDuplicate from the primary key.
func (r *followRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(follow).Error)
}

// DeleteFollow is a no-op when the pair does not exist.
func (r *followRepository) DeleteFollow(ctx context.Context, followerID, followingID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
	return translate(err)
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *followRepository) GetFollowersCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (r *followRepository) GetFollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}
