package models

import (
	"path/filepath"
	"strings"

	"github.com/Shkitskiy94/hw05-final/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const postStringLength = 15

type Post struct {
	ID          uint64  `gorm:"primaryKey"`
	PubDate     int64   `gorm:"autoCreateTime;index"`
	UpdatedAt   int64
	Text        string  `gorm:"type:text;not null"`
	AuthorID    uint64  `gorm:"not null;index"`
	Author      User    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GroupID     *uint64 `gorm:"index"`
	Group       *Group  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Image       string  `gorm:"type:varchar(255)"` // storage path, empty if no image
	ThumbSize   int64
	ThumbWidth  uint16
	ThumbHeight uint16
}

// String is the first 15 characters of the text.
func (p Post) String() string {
	return truncateRunes(p.Text, postStringLength)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// ThumbPath is where the resized JPEG copy of the image lives.
func (p Post) ThumbPath() string {
	if p.Image == "" {
		return ""
	}
	return strings.TrimSuffix(p.Image, filepath.Ext(p.Image)) + "_thumb.jpg"
}

// HasThumb reports whether the thumbnail and its dimensions are stored.
func (p Post) HasThumb() bool {
	return p.Image != "" && p.ThumbSize > 0
}

func (p *Post) Create() error {
	return db.Instance.Omit(clause.Associations).Create(p).Error
}

func (p *Post) Save() error {
	return db.Instance.Omit(clause.Associations).Save(p).Error
}

// SetGroup points the post at a group, nil clears it.
func (p *Post) SetGroup(g *Group) {
	p.Group = g
	if g == nil {
		p.GroupID = nil
		return
	}
	id := g.ID
	p.GroupID = &id
}

func PostByID(id uint64) (p Post, err error) {
	err = db.Instance.Preload("Author").Preload("Group").First(&p, id).Error
	return
}

// PostsQuery is the base feed query: newest first, ties broken by id.
func PostsQuery() *gorm.DB {
	return db.Instance.Model(&Post{}).Order("pub_date DESC, id DESC")
}

func GroupPostsQuery(groupID uint64) *gorm.DB {
	return PostsQuery().Where("group_id = ?", groupID)
}

func AuthorPostsQuery(authorID uint64) *gorm.DB {
	return PostsQuery().Where("author_id = ?", authorID)
}

// FollowedPostsQuery selects posts by every author the user follows.
func FollowedPostsQuery(userID uint64) *gorm.DB {
	followed := db.Instance.Model(&Follow{}).Select("author_id").Where("user_id = ?", userID)
	return PostsQuery().Where("author_id IN (?)", followed)
}

func CountPostsBy(authorID uint64) (count int64) {
	db.Instance.Model(&Post{}).Where("author_id = ?", authorID).Count(&count)
	return
}

// PaginatePosts loads one page of posts with author and group attached.
func PaginatePosts(query *gorm.DB, pageParam string, perPage int) (*Page[Post], error) {
	return Paginate[Post](query, pageParam, perPage, "Author", "Group")
}
