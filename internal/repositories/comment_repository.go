package repositories

import (
	"context"
	"iter"
	"time"

	"github.com/anonto42/socialgraph/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	GetCommentsCountByPostID(ctx context.Context, postID uint) (int64, error)
	StreamCommentsByPostID(ctx context.Context, postID uint) iter.Seq2[models.CommentView, error]
	DeleteOwnedComment(ctx context.Context, id, authorID uint) (bool, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a gorm backed CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error)
}

func (r *commentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) GetCommentsCountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}

type commentRow struct {
	ID                    uint
	PostID                uint
	Content               string
	CreatedAt             time.Time
	AuthorID              uint
	AuthorUsername        string
	AuthorProfileImageURL string
}

// StreamCommentsByPostID yields the post's comments newest first, joined with
// the author's display fields. Rows are read lazily and every range over the
// returned sequence runs the query again.
func (r *commentRepository) StreamCommentsByPostID(ctx context.Context, postID uint) iter.Seq2[models.CommentView, error] {
	return func(yield func(models.CommentView, error) bool) {
		rows, err := r.db.WithContext(ctx).
			Table("comments").
			Select(`comments.id, comments.post_id, comments.content, comments.created_at, comments.author_id,
				users.username AS author_username,
				users.profile_image_url AS author_profile_image_url`).
			Joins("JOIN users ON users.id = comments.author_id").
			Where("comments.post_id = ?", postID).
			Order("comments.created_at DESC, comments.id DESC").
			Rows()
		if err != nil {
			yield(models.CommentView{}, translate(err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var row commentRow
			if err := r.db.ScanRows(rows, &row); err != nil {
				yield(models.CommentView{}, translate(err))
				return
			}
			view := models.CommentView{
				ID:        row.ID,
				PostID:    row.PostID,
				Content:   row.Content,
				CreatedAt: row.CreatedAt,
				Author: models.UserCompact{
					ID:              row.AuthorID,
					Username:        row.AuthorUsername,
					ProfileImageURL: row.AuthorProfileImageURL,
				},
			}
			if !yield(view, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.CommentView{}, translate(err))
		}
	}
}

// DeleteOwnedComment deletes the comment only while authorID owns it.
func (r *commentRepository) DeleteOwnedComment(ctx context.Context, id, authorID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND author_id = ?", id, authorID).Delete(&models.Comment{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}
