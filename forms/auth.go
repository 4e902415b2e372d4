package forms

import (
	"regexp"
	"strings"

	"github.com/Shkitskiy94/hw05-final/models"

	"github.com/badoux/checkmail"
	"github.com/gin-gonic/gin"
)

const maxUsernameLength = 150

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

type SignupForm struct {
	Form
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Username  string `form:"username"`
	Email     string `form:"email"`
	Password1 string `form:"password1"`
	Password2 string `form:"password2"`
}

func (f *SignupForm) Bind(c *gin.Context) error {
	return c.ShouldBind(f)
}

func (f *SignupForm) Validate() bool {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	if f.required("username", f.Username) {
		switch {
		case len([]rune(f.Username)) > maxUsernameLength:
			f.AddError("username", "Ensure this value has at most 150 characters.")
		case !usernamePattern.MatchString(f.Username):
			f.AddError("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
		case models.UsernameTaken(f.Username):
			f.AddError("username", "A user with that username already exists.")
		}
	}
	if f.Email != "" {
		if err := checkmail.ValidateFormat(f.Email); err != nil {
			f.AddError("email", "Enter a valid email address.")
		}
	}
	if f.required("password1", f.Password1) && f.required("password2", f.Password2) {
		if f.Password1 != f.Password2 {
			f.AddError("password2", msgPasswordsDiffer)
		} else {
			f.validatePassword("password2", f.Password2)
		}
	}
	return f.IsValid()
}

// Save creates the user, Validate must have passed.
func (f *SignupForm) Save() (models.User, error) {
	u := models.User{
		Username:  f.Username,
		Email:     f.Email,
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
	}
	err := u.Create(f.Password1)
	return u, err
}

type LoginForm struct {
	Form
	Username string `form:"username"`
	Password string `form:"password"`

	User models.User `form:"-"`
}

func (f *LoginForm) Bind(c *gin.Context) error {
	return c.ShouldBind(f)
}

func (f *LoginForm) Validate() bool {
	if !f.required("username", f.Username) || !f.required("password", f.Password) {
		return false
	}
	user, ok := models.UserLogin(f.Username, f.Password)
	if !ok {
		f.AddError(NonFieldErrors, "Please enter a correct username and password. Note that both fields may be case-sensitive.")
		return false
	}
	f.User = user
	return true
}

type SetPasswordForm struct {
	Form
	NewPassword1 string `form:"new_password1"`
	NewPassword2 string `form:"new_password2"`
}

func (f *SetPasswordForm) Bind(c *gin.Context) error {
	return c.ShouldBind(f)
}

func (f *SetPasswordForm) Validate() bool {
	if f.required("new_password1", f.NewPassword1) && f.required("new_password2", f.NewPassword2) {
		if f.NewPassword1 != f.NewPassword2 {
			f.AddError("new_password2", msgPasswordsDiffer)
		} else {
			f.validatePassword("new_password2", f.NewPassword2)
		}
	}
	return f.IsValid()
}

type PasswordChangeForm struct {
	SetPasswordForm
	OldPassword string `form:"old_password"`
}

func (f *PasswordChangeForm) Bind(c *gin.Context) error {
	return c.ShouldBind(f)
}

// Validate checks the old password of user before the new pair.
func (f *PasswordChangeForm) Validate(user *models.User) bool {
	if f.required("old_password", f.OldPassword) && !user.CheckPassword(f.OldPassword) {
		f.AddError("old_password", "Your old password was entered incorrectly. Please enter it again.")
	}
	return f.SetPasswordForm.Validate()
}

type PasswordResetForm struct {
	Form
	Email string `form:"email"`
}

func (f *PasswordResetForm) Bind(c *gin.Context) error {
	return c.ShouldBind(f)
}

func (f *PasswordResetForm) Validate() bool {
	f.Email = strings.TrimSpace(f.Email)
	if f.required("email", f.Email) {
		if err := checkmail.ValidateFormat(f.Email); err != nil {
			f.AddError("email", "Enter a valid email address.")
		}
	}
	return f.IsValid()
}
