package models

import "time"

// PostLike records that a user likes a post.
// The combination of UserID and PostID is unique.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_user_post" json:"userId"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_user_post;index" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}
