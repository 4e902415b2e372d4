package web

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/Shkitskiy94/hw05-final/auth"
	"github.com/Shkitskiy94/hw05-final/db"
	"github.com/Shkitskiy94/hw05-final/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupLogsIn(t *testing.T) {
	env := setup(t)
	cl := env.client()

	w := cl.post("/auth/signup/", url.Values{
		"first_name": {"Leo"},
		"last_name":  {"Tolstoy"},
		"username":   {"leo"},
		"email":      {"leo@example.com"},
		"password1":  {"war-and-peace"},
		"password2":  {"war-and-peace"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	user, err := models.UserByUsername("leo")
	require.NoError(t, err)
	assert.Equal(t, "Leo Tolstoy", user.FullName())
	assert.Equal(t, http.StatusOK, cl.get("/create/").Code)
}

func TestSignupInvalid(t *testing.T) {
	env := setup(t)
	env.user("taken")

	w := env.client().post("/auth/signup/", url.Values{
		"username":  {"taken"},
		"email":     {"not an email"},
		"password1": {"12345678"},
		"password2": {"12345678"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	name, _ := env.renderer.last()
	assert.Equal(t, "users/signup.html", name)
}

func TestLogin(t *testing.T) {
	env := setup(t)
	env.user("leo")

	cl := env.client()
	w := cl.post("/auth/login/", url.Values{"username": {"leo"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusOK, w.Code)
	name, _ := env.renderer.last()
	assert.Equal(t, "users/login.html", name)

	w = cl.post("/auth/login/?next=/follow/", url.Values{"username": {"leo"}, "password": {"secret-pass-1"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/follow/", w.Header().Get("Location"))

	cl.get("/")
	_, data := env.renderer.last()
	assert.Equal(t, "leo", data["user"].(*models.User).Username)
}

func TestLoginIgnoresForeignNext(t *testing.T) {
	env := setup(t)
	env.user("leo")
	w := env.client().post("/auth/login/", url.Values{
		"username": {"leo"},
		"password": {"secret-pass-1"},
		"next":     {"//evil.example/"},
	})
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	env := setup(t)
	env.user("leo")
	cl := env.client().login("leo")

	w := cl.get("/auth/logout/")
	assert.Equal(t, http.StatusOK, w.Code)
	name, _ := env.renderer.last()
	assert.Equal(t, "users/logged_out.html", name)
	assert.Equal(t, http.StatusFound, cl.get("/create/").Code)
}

func TestPasswordChange(t *testing.T) {
	env := setup(t)
	env.user("leo")
	cl := env.client().login("leo")

	w := cl.post("/auth/password_change/", url.Values{
		"old_password":  {"bad"},
		"new_password1": {"a-new-password"},
		"new_password2": {"a-new-password"},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = cl.post("/auth/password_change/", url.Values{
		"old_password":  {"secret-pass-1"},
		"new_password1": {"a-new-password"},
		"new_password2": {"a-new-password"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/password_change/done/", w.Header().Get("Location"))

	_, ok := models.UserLogin("leo", "a-new-password")
	assert.True(t, ok)
}

func TestPasswordResetFlow(t *testing.T) {
	env := setup(t)
	user := env.user("leo")
	cl := env.client()

	w := cl.post("/auth/password_reset/", url.Values{"email": {"nobody@example.com"}})
	assert.Equal(t, "/auth/password_reset/done/", w.Header().Get("Location"))
	assert.Empty(t, env.sender.messages)

	w = cl.post("/auth/password_reset/", url.Values{"email": {"LEO@example.com"}})
	assert.Equal(t, "/auth/password_reset/done/", w.Header().Get("Location"))
	require.Len(t, env.sender.messages, 1)
	msg := env.sender.messages[0]
	assert.Equal(t, "leo@example.com", msg.To)

	var reset models.PasswordReset
	require.NoError(t, db.Instance.First(&reset, "user_id = ?", user.ID).Error)
	link := fmt.Sprintf("/auth/reset/%s/%s/", auth.EncodeUID(user.ID), reset.Token)
	assert.Contains(t, msg.HTML, "http://testserver"+link)

	cl.get(link)
	name, data := env.renderer.last()
	assert.Equal(t, "users/password_reset_confirm.html", name)
	assert.Equal(t, true, data["validlink"])

	w = cl.post(link, url.Values{"new_password1": {"brand-new-pass"}, "new_password2": {"brand-new-pass"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/password_reset/complete/", w.Header().Get("Location"))
	_, ok := models.UserLogin("leo", "brand-new-pass")
	assert.True(t, ok)

	// the link is single use
	w = cl.get(link)
	assert.Equal(t, http.StatusOK, w.Code)
	_, data = env.renderer.last()
	assert.Equal(t, false, data["validlink"])
}

func TestPasswordResetBadLinks(t *testing.T) {
	env := setup(t)
	user := env.user("leo")
	cl := env.client()
	for _, link := range []string{
		"/auth/reset/!!/token/",
		fmt.Sprintf("/auth/reset/%s/not-a-token/", auth.EncodeUID(user.ID)),
		fmt.Sprintf("/auth/reset/%s/token/", auth.EncodeUID(999)),
	} {
		w := cl.get(link)
		assert.Equal(t, http.StatusOK, w.Code, link)
		_, data := env.renderer.last()
		assert.Equal(t, false, data["validlink"], link)
	}
}

func TestCSRFProtection(t *testing.T) {
	env := setupWith(t, false)
	env.user("leo")
	cl := env.client()

	w := cl.post("/auth/login/", url.Values{"username": {"leo"}, "password": {"secret-pass-1"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
	name, _ := env.renderer.last()
	assert.Equal(t, "core/403csrf.html", name)

	cl.get("/auth/login/")
	_, data := env.renderer.last()
	token, _ := data["csrf_token"].(string)
	require.NotEmpty(t, token)

	w = cl.post("/auth/login/", url.Values{
		"username":         {"leo"},
		"password":         {"secret-pass-1"},
		auth.CSRFFormField: {token},
	})
	assert.Equal(t, http.StatusFound, w.Code)
}
