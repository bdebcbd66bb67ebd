package models

import "time"

// Follow is an ordered (follower, following) pair. The composite primary key
// and the check constraint keep the graph free of duplicates and self loops.
type Follow struct {
	FollowerID  uint      `json:"follower_id" gorm:"primaryKey;autoIncrement:false;check:chk_follows_not_self,follower_id <> following_id"`
	FollowingID uint      `json:"following_id" gorm:"primaryKey;autoIncrement:false;index"`
	Follower    User      `json:"-" gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Following   User      `json:"-" gorm:"foreignKey:FollowingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time `json:"created_at"`
}
