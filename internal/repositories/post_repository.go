package repositories

import (
	"context"

	"github.com/anonto42/socialgraph/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	DeleteOwnedPost(ctx context.Context, id, authorID uint) (bool, error)
	GetFeed(ctx context.Context, viewerID uint, limit, offset int) ([]models.FeedRow, error)
	CountFeed(ctx context.Context, viewerID uint) (int64, error)
	GetPostsByAuthor(ctx context.Context, viewerID, authorID uint, limit, offset int) ([]models.FeedRow, error)
	GetAnnotatedPost(ctx context.Context, viewerID, postID uint) (*models.FeedRow, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a gorm backed PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error)
}

func (r *postRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}

// DeleteOwnedPost deletes the post and its engagement rows in one
// transaction, but only while authorID still owns it. It reports whether a
// post was deleted; false means the post is gone or owned by someone else.
func (r *postRepository) DeleteOwnedPost(ctx context.Context, id, authorID uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := func() *gorm.DB {
			return tx.Model(&models.Post{}).Select("id").Where("id = ? AND author_id = ?", id, authorID)
		}

		if err := tx.Where("post_id IN (?)", owned()).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", owned()).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND author_id = ?", id, authorID).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, translate(err)
	}
	return deleted, nil
}

// annotated selects posts joined with their author plus read-time like and
// comment aggregates for viewerID.
func (r *postRepository) annotated(ctx context.Context, viewerID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts").
		Select(`posts.id, posts.author_id, posts.content, posts.image_url, posts.created_at,
			users.username AS author_username,
			users.profile_image_url AS author_profile_image_url,
			(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_count,
			(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count,
			(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS viewer_like_count`, viewerID).
		Joins("JOIN users ON users.id = posts.author_id")
}

const feedAuthorFilter = "(posts.author_id = ? OR posts.author_id IN (SELECT following_id FROM follows WHERE follower_id = ?))"

// GetFeed returns one page of the viewer's own posts and the posts of every
// account the viewer follows, newest first. Equal timestamps fall back to id
// so that pages never overlap.
func (r *postRepository) GetFeed(ctx context.Context, viewerID uint, limit, offset int) ([]models.FeedRow, error) {
	var rows []models.FeedRow
	err := r.annotated(ctx, viewerID).
		Where(feedAuthorFilter, viewerID, viewerID).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (r *postRepository) CountFeed(ctx context.Context, viewerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("posts").
		Where(feedAuthorFilter, viewerID, viewerID).
		Count(&count).Error
	if err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (r *postRepository) GetPostsByAuthor(ctx context.Context, viewerID, authorID uint, limit, offset int) ([]models.FeedRow, error) {
	var rows []models.FeedRow
	err := r.annotated(ctx, viewerID).
		Where("posts.author_id = ?", authorID).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (r *postRepository) GetAnnotatedPost(ctx context.Context, viewerID, postID uint) (*models.FeedRow, error) {
	var rows []models.FeedRow
	err := r.annotated(ctx, viewerID).
		Where("posts.id = ?", postID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}
