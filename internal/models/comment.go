package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a reply to a Post.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"userId"`
	PostID  uint   `gorm:"not null;index" json:"postId"`
	// Nickname is the author's nickname, projected from users at query time.
	Nickname  string         `gorm:"->;-:migration" json:"nickname"`
	Post      *Post          `gorm:"foreignKey:PostID" json:"post,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
