package repositories

import (
	"context"

	"github.com/anonto42/socialgraph/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, postID, userID uint) error
	HasUserLikedPost(ctx context.Context, postID, userID uint) (bool, error)
	GetLikesCountByPostID(ctx context.Context, postID uint) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a gorm backed LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// CreateLike inserts the (post, user) pair. A second like of the same pair
// fails with ErrDuplicate, a like of a missing post with ErrMissingReference.
func (r *likeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(like).Error)
}

// DeleteLike is a no-op when the pair does not exist.
func (r *likeRepository) DeleteLike(ctx context.Context, postID, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{}).Error
	return translate(err)
}

func (r *likeRepository) HasUserLikedPost(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *likeRepository) GetLikesCountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}
