package auth

import (
	"github.com/Shkitskiy94/hw05-final/db"
	"github.com/Shkitskiy94/hw05-final/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	userIdKey      = "id"
	userContextKey = "auth.user"
)

type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

// LoginUser stores the user in the session and rotates the CSRF token.
func (s *Session) LoginUser(c *gin.Context, user *models.User) error {
	s.Clear()
	s.Set(userIdKey, user.ID)
	s.Set(csrfSessionKey, newCSRFToken())
	c.Set(userContextKey, user)
	return s.Save()
}

func (s *Session) LogoutUser(c *gin.Context) error {
	s.Delete(userIdKey)
	s.Clear()
	c.Set(userContextKey, (*models.User)(nil))
	return s.Save()
}

func (s *Session) User() (user models.User) {
	id, ok := s.Get(userIdKey).(uint64)
	if !ok || id == 0 {
		return
	}
	if err := db.Instance.First(&user, id).Error; err != nil {
		user.ID = 0
	}
	return
}

// UserMiddleware loads the logged in user, if any, once per request.
func UserMiddleware(c *gin.Context) {
	user := LoadSession(c).User()
	if user.ID != 0 {
		c.Set(userContextKey, &user)
	}
	c.Next()
}

// CurrentUser returns the logged in user or nil for guests.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*models.User); ok && user != nil {
			return user
		}
	}
	return nil
}

func saveSession(s sessions.Session) {
	if err := s.Save(); err != nil {
		log.WithError(err).Error("Cannot save session")
	}
}
