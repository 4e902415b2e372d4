package web

import (
	"net/http"

	"github.com/Shkitskiy94/hw05-final/models"
	"github.com/Shkitskiy94/hw05-final/storage"

	"github.com/gin-gonic/gin"
)

const mediaCacheSeconds = "604800" // 7 days, image paths never change

// Media serves uploaded post images, "?thumb=1" asks for the thumbnail.
func Media(c *gin.Context) {
	path, ok := storage.CleanPath(c.Param("path"))
	if !ok || !storage.IsImagePath(path) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	if c.Query("thumb") == "1" {
		post := models.Post{Image: path}
		path = post.ThumbPath()
	}
	c.Header("cache-control", "private, max-age="+mediaCacheSeconds)
	c.Header("x-content-type-options", "nosniff")
	storage.GetDefaultStorage().Serve(path, c.Request, c.Writer)
}
