package models

import "time"

// Post is immutable once created; only its author may delete it.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey;index:idx_posts_author_recent,priority:3,sort:desc"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index:idx_posts_author_recent,priority:1"`
	Author    User      `json:"-" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;index:idx_posts_author_recent,priority:2,sort:desc"`
}

// FeedPost is a post annotated for one viewing principal. Counts are
// aggregated at read time.
type FeedPost struct {
	ID           uint        `json:"id"`
	Content      string      `json:"content"`
	ImageURL     *string     `json:"image_url"`
	CreatedAt    time.Time   `json:"created_at"`
	Author       UserCompact `json:"author"`
	LikeCount    int64       `json:"like_count"`
	CommentCount int64       `json:"comment_count"`
	Liked        bool        `json:"liked"`
	IsOwner      bool        `json:"is_owner"`
}

// FeedRow is the flat projection scanned from the feed query.
type FeedRow struct {
	ID                    uint
	AuthorID              uint
	Content               string
	ImageURL              *string
	CreatedAt             time.Time
	AuthorUsername        string
	AuthorProfileImageURL string
	LikeCount             int64
	CommentCount          int64
	ViewerLikeCount       int64
}

func (r FeedRow) ToFeedPost(viewerID uint) FeedPost {
	return FeedPost{
		ID:        r.ID,
		Content:   r.Content,
		ImageURL:  r.ImageURL,
		CreatedAt: r.CreatedAt,
		Author: UserCompact{
			ID:              r.AuthorID,
			Username:        r.AuthorUsername,
			ProfileImageURL: r.AuthorProfileImageURL,
		},
		LikeCount:    r.LikeCount,
		CommentCount: r.CommentCount,
		Liked:        r.ViewerLikeCount > 0,
		IsOwner:      r.AuthorID == viewerID,
	}
}

// CreatePostRequest is the JSON form of post creation; multipart requests
// carry the same field plus an optional image file.
type CreatePostRequest struct {
	Content string `json:"content" form:"content" validate:"max=2200"`
}
