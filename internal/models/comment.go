package models

import "time"

// Comment represents a comment on a post
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;index:idx_comments_post_recent,priority:1"`
	Post      Post      `json:"-" gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`
	Author    User      `json:"-" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;index:idx_comments_post_recent,priority:2,sort:desc"`
}

// CommentView is a comment joined with its author's display fields.
type CommentView struct {
	ID        uint        `json:"id"`
	PostID    uint        `json:"post_id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	Author    UserCompact `json:"author"`
}

// CreateCommentRequest defines the request body for creating a new comment.
// Length is checked by the service after trimming.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}
