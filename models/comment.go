package models

import (
	"github.com/Shkitskiy94/hw05-final/db"

	"gorm.io/gorm/clause"
)

type Comment struct {
	ID       uint64 `gorm:"primaryKey"`
	Created  int64  `gorm:"autoCreateTime;index"`
	PostID   uint64 `gorm:"not null;index"`
	Post     Post   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID uint64 `gorm:"not null;index"`
	Author   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Text     string `gorm:"type:text;not null"`
}

// String matches the post it belongs to, Post must be loaded.
func (c Comment) String() string {
	return c.Post.String()
}

func (c *Comment) Create() error {
	return db.Instance.Omit(clause.Associations).Create(c).Error
}

// CommentsFor returns the comments of a post, newest first.
func CommentsFor(postID uint64) (comments []Comment, err error) {
	err = db.Instance.Preload("Author").
		Where("post_id = ?", postID).
		Order("created DESC, id DESC").
		Find(&comments).Error
	return
}
