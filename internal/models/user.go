package models

import "time"

// User is the account an authenticated principal resolves to.
type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Username        string    `json:"username" gorm:"size:50;not null;uniqueIndex"`
	Email           string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash    string    `json:"-" gorm:"not null;default:''"`
	FirebaseUID     *string   `json:"-" gorm:"size:128;uniqueIndex"` // NULL for local accounts
	Bio             string    `json:"bio" gorm:"size:500;not null;default:''"`
	ProfileImageURL string    `json:"profile_image_url" gorm:"not null;default:''"`
	CreatedAt       time.Time `json:"created_at"`
}

// UserCompact is the public subset of a user embedded in posts and comments.
type UserCompact struct {
	ID              uint   `json:"id"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:              u.ID,
		Username:        u.Username,
		ProfileImageURL: u.ProfileImageURL,
	}
}

// Profile is a user as seen by another principal.
type Profile struct {
	UserCompact
	Bio            string     `json:"bio"`
	PostCount      int64      `json:"post_count"`
	FollowerCount  int64      `json:"follower_count"`
	FollowingCount int64      `json:"following_count"`
	IsFollowing    bool       `json:"is_following"`
	IsSelf         bool       `json:"is_self"`
	Posts          []FeedPost `json:"posts"`
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type UpdateProfileRequest struct {
	Bio             *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	ProfileImageURL *string `json:"profile_image_url,omitempty" validate:"omitempty,url"`
}
