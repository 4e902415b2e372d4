package web

import (
	"net/http"
	"strings"

	"github.com/Shkitskiy94/hw05-final/auth"
	"github.com/Shkitskiy94/hw05-final/config"
	"github.com/Shkitskiy94/hw05-final/forms"
	"github.com/Shkitskiy94/hw05-final/mail"
	"github.com/Shkitskiy94/hw05-final/models"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func Signup(c *gin.Context) {
	form := &forms.SignupForm{}
	if c.Request.Method == http.MethodPost && bindForm(c, form) && form.Validate() {
		user, err := form.Save()
		if err == nil {
			err = auth.LoadSession(c).LoginUser(c, &user)
		}
		if err != nil {
			ServerError(c, err)
			return
		}
		log.WithField("user", user.Username).Info("New user signed up")
		redirect(c, "/")
		return
	}
	render(c, http.StatusOK, "users/signup.html", gin.H{"form": form})
}

// safeNext only allows redirects back into this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func Login(c *gin.Context) {
	form := &forms.LoginForm{}
	next := c.Query("next")
	if c.Request.Method == http.MethodPost {
		if posted := c.PostForm("next"); posted != "" {
			next = posted
		}
		if bindForm(c, form) && form.Validate() {
			if err := auth.LoadSession(c).LoginUser(c, &form.User); err != nil {
				ServerError(c, err)
				return
			}
			redirect(c, safeNext(next))
			return
		}
		form.Password = ""
	}
	render(c, http.StatusOK, "users/login.html", gin.H{"form": form, "next": next})
}

func Logout(c *gin.Context) {
	if err := auth.LoadSession(c).LogoutUser(c); err != nil {
		ServerError(c, err)
		return
	}
	render(c, http.StatusOK, "users/logged_out.html", nil)
}

// PasswordReset never tells whether the address belongs to anyone.
func PasswordReset(c *gin.Context) {
	form := &forms.PasswordResetForm{}
	if c.Request.Method == http.MethodPost && bindForm(c, form) && form.Validate() {
		users, err := models.UsersByEmail(form.Email)
		if err != nil {
			ServerError(c, err)
			return
		}
		for i := range users {
			if err = sendPasswordReset(&users[i]); err != nil {
				log.WithError(err).WithField("user", users[i].Username).Error("Cannot send password reset email")
			}
		}
		redirect(c, "/auth/password_reset/done/")
		return
	}
	render(c, http.StatusOK, "users/password_reset_form.html", gin.H{"form": form})
}

func passwordResetLink(userID uint64, token string) string {
	return strings.TrimSuffix(config.SITE_URL, "/") + "/auth/reset/" + auth.EncodeUID(userID) + "/" + token + "/"
}

func sendPasswordReset(user *models.User) error {
	reset, err := models.PasswordResetCreate(user.ID)
	if err != nil {
		return err
	}
	msg, err := mail.PasswordResetMessage(config.SITE_URL, user.Username, user.Email, passwordResetLink(user.ID, reset.Token))
	if err != nil {
		return err
	}
	return mail.Default().Send(msg)
}

func PasswordResetConfirm(c *gin.Context) {
	var reset models.PasswordReset
	validLink := false
	if userID, err := auth.DecodeUID(c.Param("uidb64")); err == nil {
		reset, err = models.PasswordResetFind(userID, c.Param("token"))
		validLink = err == nil
	}
	if !validLink {
		render(c, http.StatusOK, "users/password_reset_confirm.html", gin.H{"validlink": false})
		return
	}
	form := &forms.SetPasswordForm{}
	if c.Request.Method == http.MethodPost && bindForm(c, form) && form.Validate() {
		if err := reset.User.SavePassword(form.NewPassword1); err != nil {
			ServerError(c, err)
			return
		}
		log.WithField("user", reset.User.Username).Info("Password reset")
		redirect(c, "/auth/password_reset/complete/")
		return
	}
	render(c, http.StatusOK, "users/password_reset_confirm.html", gin.H{
		"validlink": true,
		"form":      form,
	})
}

func PasswordChange(c *gin.Context, user *models.User) {
	form := &forms.PasswordChangeForm{}
	if c.Request.Method == http.MethodPost && bindForm(c, form) && form.Validate(user) {
		if err := user.SavePassword(form.NewPassword1); err != nil {
			ServerError(c, err)
			return
		}
		redirect(c, "/auth/password_change/done/")
		return
	}
	render(c, http.StatusOK, "users/password_change_form.html", gin.H{"form": form})
}

func PasswordChangeDone(c *gin.Context, _ *models.User) {
	render(c, http.StatusOK, "users/password_change_done.html", nil)
}
