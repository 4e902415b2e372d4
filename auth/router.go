package auth

import (
	"net/http"
	"net/url"

	"github.com/Shkitskiy94/hw05-final/models"

	"github.com/gin-gonic/gin"
)

// User is authenticated
type HandlerFunc func(c *gin.Context, user *models.User)

// Router is a wrapper that redirects guests to the login page and hands
// the loaded user to the handler.
type Router struct {
	Base     gin.IRoutes
	LoginURL string
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc) {
	user := CurrentUser(c)
	if user == nil {
		c.Redirect(http.StatusFound, LoginRedirectURL(cr.LoginURL, c.Request.URL.RequestURI()))
		c.Abort()
		return
	}
	handler(c, user)
}

func LoginRedirectURL(loginURL, next string) string {
	return loginURL + "?" + url.Values{"next": {next}}.Encode()
}

func (cr *Router) POST(path string, handler HandlerFunc, middleware ...gin.HandlerFunc) {
	cr.Base.POST(path, append(middleware, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})...)
}

func (cr *Router) GET(path string, handler HandlerFunc, middleware ...gin.HandlerFunc) {
	cr.Base.GET(path, append(middleware, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})...)
}

// Form registers handler for both GET (render) and POST (submit).
func (cr *Router) Form(path string, handler HandlerFunc, middleware ...gin.HandlerFunc) {
	cr.GET(path, handler, middleware...)
	cr.POST(path, handler, middleware...)
}
