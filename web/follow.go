package web

import (
	"errors"
	"net/http"

	"github.com/Shkitskiy94/hw05-final/auth"
	"github.com/Shkitskiy94/hw05-final/config"
	"github.com/Shkitskiy94/hw05-final/models"

	"github.com/gin-gonic/gin"
)

func currentUser(c *gin.Context) *models.User {
	return auth.CurrentUser(c)
}

func FollowIndex(c *gin.Context, user *models.User) {
	page, err := models.PaginatePosts(models.FollowedPostsQuery(user.ID), c.Query("page"), config.POSTS_PER_PAGE)
	if err != nil {
		ServerError(c, err)
		return
	}
	render(c, http.StatusOK, "posts/follow.html", gin.H{"page_obj": page})
}

// ProfileFollow is idempotent and silently ignores following yourself.
func ProfileFollow(c *gin.Context, user *models.User) {
	author, ok := loadAuthor(c)
	if !ok {
		return
	}
	if err := models.FollowCreate(user.ID, author.ID); err != nil && !errors.Is(err, models.ErrSelfFollow) {
		ServerError(c, err)
		return
	}
	redirect(c, profileURL(author.Username))
}

func ProfileUnfollow(c *gin.Context, user *models.User) {
	author, ok := loadAuthor(c)
	if !ok {
		return
	}
	if err := models.FollowDelete(user.ID, author.ID); err != nil {
		ServerError(c, err)
		return
	}
	redirect(c, profileURL(author.Username))
}
