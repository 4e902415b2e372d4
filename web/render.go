package web

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Shkitskiy94/hw05-final/auth"
	"github.com/Shkitskiy94/hw05-final/forms"
	"github.com/Shkitskiy94/hw05-final/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// render adds the values every template expects and renders name.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["user"] = auth.CurrentUser(c)
	if _, ok := c.Get(sessions.DefaultKey); ok {
		data["csrf_token"] = auth.CSRFToken(c)
	}
	data["csrf_field"] = auth.CSRFFormField
	data["request_path"] = c.Request.URL.Path
	data["year"] = time.Now().Year()
	c.HTML(status, name, data)
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id uint64) string {
	return "/posts/" + strconv.FormatUint(id, 10) + "/"
}

func groupURL(slug string) string {
	return "/group/" + url.PathEscape(slug) + "/"
}

func mediaURL(path string) string {
	if path == "" {
		return ""
	}
	return "/media/" + path
}

func linebreaksbr(s string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

func truncatewords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + " …"
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(ts int64) string {
			return time.Unix(ts, 0).UTC().Format("2 January 2006")
		},
		"datetime": func(ts int64) string {
			return time.Unix(ts, 0).UTC().Format("2 January 2006 15:04")
		},
		"linebreaksbr":  linebreaksbr,
		"truncatewords": truncatewords,
		"profile_url":   profileURL,
		"post_url":      postURL,
		"post_edit_url": func(id uint64) string { return postURL(id) + "edit/" },
		"comment_url":   func(id uint64) string { return postURL(id) + "comment/" },
		"group_url":     groupURL,
		"follow_url":    func(username string) string { return profileURL(username) + "follow/" },
		"unfollow_url":  func(username string) string { return profileURL(username) + "unfollow/" },
		"media_url":     mediaURL,
	}
}

// dbResult maps a lookup error to the right page. It returns false when a
// response has been written.
func dbResult(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c)
		return false
	}
	ServerError(c, err)
	return false
}

func loadPost(c *gin.Context) (*models.Post, bool) {
	id, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		NotFound(c)
		return nil, false
	}
	post, err := models.PostByID(id)
	if !dbResult(c, err) {
		return nil, false
	}
	return &post, true
}

func loadAuthor(c *gin.Context) (*models.User, bool) {
	author, err := models.UserByUsername(c.Param("username"))
	if !dbResult(c, err) {
		return nil, false
	}
	return &author, true
}

// bindForm binds the request body, a malformed body becomes a form error.
func bindForm(c *gin.Context, form interface {
	Bind(*gin.Context) error
	AddError(field, message string)
}) bool {
	if err := form.Bind(c); err != nil {
		log.WithError(err).WithField("path", c.Request.URL.Path).Debug("Cannot bind form")
		form.AddError(forms.NonFieldErrors, "The submitted form could not be read.")
		return false
	}
	return true
}
