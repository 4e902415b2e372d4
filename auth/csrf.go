package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/Shkitskiy94/hw05-final/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	csrfSessionKey = "csrf"
	CSRFFormField  = "csrfmiddlewaretoken"
	CSRFHeader     = "X-CSRFToken"
)

func newCSRFToken() string {
	return utils.Rand16BytesToBase62() + utils.Rand16BytesToBase62()
}

// CSRFToken returns the token of the current session, creating it on
// first use. It must be called before the response body is written.
func CSRFToken(c *gin.Context) string {
	s := sessions.Default(c)
	if token, ok := s.Get(csrfSessionKey).(string); ok && token != "" {
		return token
	}
	token := newCSRFToken()
	s.Set(csrfSessionKey, token)
	saveSession(s)
	return token
}

// CSRFMiddleware rejects unsafe requests whose token does not match the
// session one. onFailure renders the response.
func CSRFMiddleware(onFailure gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			c.Next()
			return
		}
		expected, _ := sessions.Default(c).Get(csrfSessionKey).(string)
		got := c.GetHeader(CSRFHeader)
		if got == "" {
			got = c.PostForm(CSRFFormField)
		}
		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
			onFailure(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
