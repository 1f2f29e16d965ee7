package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a forum article. LikeCount is a denormalized counter kept in step
// with the post_likes rows referencing the post.
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"not null" json:"title"`
	Content   string `gorm:"type:text;not null" json:"content"`
	UserID    uint   `gorm:"not null;index" json:"userId"`
	LikeCount int    `gorm:"not null;default:0" json:"likeCount"`
	// Nickname is the author's nickname, projected from users at query time.
	Nickname  string         `gorm:"->;-:migration" json:"nickname"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
