package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "core/404.html", gin.H{"path": c.Request.URL.Path})
	c.Abort()
}

func CSRFFailure(c *gin.Context) {
	log.WithFields(log.Fields{"path": c.Request.URL.Path, "ip": c.ClientIP()}).Warn("CSRF verification failed")
	render(c, http.StatusForbidden, "core/403csrf.html", gin.H{"reason": "CSRF token missing or incorrect."})
}

func ServerError(c *gin.Context, err error) {
	log.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
	render(c, http.StatusInternalServerError, "core/500.html", nil)
	c.Abort()
}

func recoverPanic(c *gin.Context, recovered any) {
	log.WithFields(log.Fields{"path": c.Request.URL.Path, "panic": recovered}).Error("Panic while handling request")
	if c.Writer.Written() {
		c.Abort()
		return
	}
	render(c, http.StatusInternalServerError, "core/500.html", nil)
	c.Abort()
}
