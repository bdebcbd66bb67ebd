package models

import "time"

// Like is unique per (post, user).
type Like struct {
	PostID    uint      `json:"post_id" gorm:"primaryKey;autoIncrement:false"`
	UserID    uint      `json:"user_id" gorm:"primaryKey;autoIncrement:false;index"`
	Post      Post      `json:"-" gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"created_at"`
}
