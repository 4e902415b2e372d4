package web

import (
	"net/http"

	"github.com/Shkitskiy94/hw05-final/config"
	"github.com/Shkitskiy94/hw05-final/forms"
	"github.com/Shkitskiy94/hw05-final/models"
	"github.com/Shkitskiy94/hw05-final/processing"
	"github.com/Shkitskiy94/hw05-final/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func Index(c *gin.Context) {
	page, err := models.PaginatePosts(models.PostsQuery(), c.Query("page"), config.POSTS_PER_PAGE)
	if err != nil {
		ServerError(c, err)
		return
	}
	render(c, http.StatusOK, "posts/index.html", gin.H{"page_obj": page})
}

func GroupPosts(c *gin.Context) {
	group, err := models.GroupBySlug(c.Param("slug"))
	if !dbResult(c, err) {
		return
	}
	page, err := models.PaginatePosts(models.GroupPostsQuery(group.ID), c.Query("page"), config.POSTS_PER_PAGE)
	if err != nil {
		ServerError(c, err)
		return
	}
	render(c, http.StatusOK, "posts/group_list.html", gin.H{
		"group":    group,
		"page_obj": page,
	})
}

func Profile(c *gin.Context) {
	author, ok := loadAuthor(c)
	if !ok {
		return
	}
	page, err := models.PaginatePosts(models.AuthorPostsQuery(author.ID), c.Query("page"), config.POSTS_PER_PAGE)
	if err != nil {
		ServerError(c, err)
		return
	}
	following := false
	if user := currentUser(c); user != nil {
		following = models.IsFollowing(user.ID, author.ID)
	}
	render(c, http.StatusOK, "posts/profile.html", gin.H{
		"author":          author,
		"post_count":      page.Count,
		"page_obj":        page,
		"following":       following,
		"followers_count": models.CountFollowers(author.ID),
		"following_count": models.CountFollowing(author.ID),
	})
}

func PostDetail(c *gin.Context) {
	post, ok := loadPost(c)
	if !ok {
		return
	}
	comments, err := models.CommentsFor(post.ID)
	if err != nil {
		ServerError(c, err)
		return
	}
	render(c, http.StatusOK, "posts/post_detail.html", gin.H{
		"title":        post.Group,
		"post":         post,
		"author_posts": models.CountPostsBy(post.AuthorID),
		"comments":     comments,
		"form":         &forms.CommentForm{},
	})
}

func PostCreate(c *gin.Context, user *models.User) {
	form, err := forms.NewPostForm(nil)
	if err != nil {
		ServerError(c, err)
		return
	}
	if c.Request.Method == http.MethodPost && bindForm(c, form) && form.Validate() {
		post := models.Post{AuthorID: user.ID}
		if _, err = form.Apply(&post, storage.GetDefaultStorage()); err == nil {
			err = post.Create()
		}
		if err != nil {
			ServerError(c, err)
			return
		}
		log.WithFields(log.Fields{"post": post.ID, "author": user.Username}).Info("Post created")
		redirect(c, profileURL(user.Username))
		return
	}
	render(c, http.StatusOK, "posts/create_post.html", gin.H{"form": form, "is_edit": false})
}

func PostEdit(c *gin.Context, user *models.User) {
	post, ok := loadPost(c)
	if !ok {
		return
	}
	if post.AuthorID != user.ID {
		redirect(c, postURL(post.ID))
		return
	}
	form, err := forms.NewPostForm(post)
	if err != nil {
		ServerError(c, err)
		return
	}
	if c.Request.Method == http.MethodPost && bindForm(c, form) && form.Validate() {
		store := storage.GetDefaultStorage()
		oldThumb := post.ThumbPath()
		replaced, err := form.Apply(post, store)
		if err == nil {
			err = post.Save()
		}
		if err != nil {
			ServerError(c, err)
			return
		}
		if replaced != "" {
			removeImage(store, post.ID, replaced, oldThumb)
		}
		redirect(c, postURL(post.ID))
		return
	}
	render(c, http.StatusOK, "posts/create_post.html", gin.H{
		"form":    form,
		"post":    post,
		"is_edit": true,
	})
}

// removeImage drops a replaced image and its thumbnail and lets the
// processing loop pick the post up again.
func removeImage(store storage.StorageAPI, postID uint64, image, thumb string) {
	for _, path := range []string{image, thumb} {
		if err := store.Delete(path); err != nil {
			log.WithError(err).WithField("path", path).Warn("Cannot delete replaced image")
		}
	}
	if err := processing.Reset(postID); err != nil {
		log.WithError(err).WithField("post", postID).Warn("Cannot reset processing state")
	}
}

// AddComment always goes back to the post, an invalid comment is dropped.
func AddComment(c *gin.Context, user *models.User) {
	post, ok := loadPost(c)
	if !ok {
		return
	}
	form := &forms.CommentForm{}
	if c.Request.Method == http.MethodPost && bindForm(c, form) && form.Validate() {
		comment := models.Comment{PostID: post.ID, AuthorID: user.ID, Text: form.Text}
		if err := comment.Create(); err != nil {
			ServerError(c, err)
			return
		}
	}
	redirect(c, postURL(post.ID))
}
