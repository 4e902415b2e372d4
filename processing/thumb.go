package processing

import (
	"bytes"

	"github.com/Shkitskiy94/hw05-final/db"
	"github.com/Shkitskiy94/hw05-final/models"
	"github.com/Shkitskiy94/hw05-final/storage"
	"github.com/Shkitskiy94/hw05-final/utils"

	log "github.com/sirupsen/logrus"
)

type thumb struct {
	size uint
}

func (t *thumb) getName() string {
	return "thumb"
}

func (t *thumb) shouldHandle(post *models.Post) bool {
	return post.Image != "" && post.ThumbSize == 0
}

func (t *thumb) process(post *models.Post, store storage.StorageAPI) int {
	original := bytes.Buffer{}
	if _, err := store.Load(post.Image, &original); err != nil {
		log.WithError(err).WithField("path", post.Image).Error("Cannot load image")
		return FailedStorage
	}
	buf := bytes.Buffer{}
	result, err := utils.CreateThumb(t.size, &original, &buf)
	if err != nil {
		log.WithError(err).WithField("post", post.ID).Error("Error creating thumbnail")
		return Failed
	}
	if _, err = store.Save(post.ThumbPath(), &buf); err != nil {
		log.WithError(err).WithField("path", post.ThumbPath()).Error("Cannot save thumbnail")
		return FailedStorage
	}
	post.ThumbSize = result.ThumbSize
	post.ThumbWidth = result.NewX
	post.ThumbHeight = result.NewY
	err = db.Instance.Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]any{
		"thumb_size":   post.ThumbSize,
		"thumb_width":  post.ThumbWidth,
		"thumb_height": post.ThumbHeight,
	}).Error
	if err != nil {
		log.WithError(err).WithField("post", post.ID).Error("Error saving post")
		return Failed
	}
	return Done
}
