package models

import (
	"errors"

	"github.com/Shkitskiy94/hw05-final/db"

	"gorm.io/gorm/clause"
)

// Follow is a directed subscription edge: User follows Author.
type Follow struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UserID    uint64 `gorm:"not null;index:uniq_follow,priority:1,unique"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID  uint64 `gorm:"not null;index:uniq_follow,priority:2,unique;index:idx_follow_author"`
	Author    User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// String needs User and Author loaded.
func (f Follow) String() string {
	return f.User.Username + " --> " + f.Author.Username
}

var ErrSelfFollow = errors.New("users cannot follow themselves")

// FollowCreate is idempotent, an existing edge is left untouched.
func FollowCreate(userID, authorID uint64) error {
	if userID == authorID {
		return ErrSelfFollow
	}
	f := Follow{UserID: userID, AuthorID: authorID}
	return db.Instance.
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&f).Error
}

// FollowDelete removes the edge if present.
func FollowDelete(userID, authorID uint64) error {
	return db.Instance.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&Follow{}).Error
}

func IsFollowing(userID, authorID uint64) bool {
	var count int64
	db.Instance.Model(&Follow{}).Where("user_id = ? AND author_id = ?", userID, authorID).Count(&count)
	return count > 0
}

func CountFollowers(authorID uint64) (count int64) {
	db.Instance.Model(&Follow{}).Where("author_id = ?", authorID).Count(&count)
	return
}

func CountFollowing(userID uint64) (count int64) {
	db.Instance.Model(&Follow{}).Where("user_id = ?", userID).Count(&count)
	return
}
