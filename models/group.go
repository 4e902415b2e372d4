package models

import (
	"github.com/Shkitskiy94/hw05-final/db"
)

type Group struct {
	ID          uint64 `gorm:"primaryKey"`
	Title       string `gorm:"type:varchar(200);not null"`
	Slug        string `gorm:"type:varchar(50);index:uniq_slug,unique;not null"`
	Description string `gorm:"type:text"`
}

func (g Group) String() string {
	return g.Title
}

func (g *Group) Create() error {
	return db.Instance.Create(g).Error
}

func GroupBySlug(slug string) (g Group, err error) {
	err = db.Instance.First(&g, "slug = ?", slug).Error
	return
}

func GroupByID(id uint64) (g Group, err error) {
	err = db.Instance.First(&g, id).Error
	return
}

// GroupList returns all groups ordered by title, used for form choices.
func GroupList() (groups []Group, err error) {
	err = db.Instance.Order("title ASC, id ASC").Find(&groups).Error
	return
}
