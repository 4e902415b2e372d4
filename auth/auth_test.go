package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Shkitskiy94/hw05-final/db"
	"github.com/Shkitskiy94/hw05-final/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupDB(t *testing.T) models.User {
	t.Helper()
	models.PasswordCost = bcrypt.MinCost
	database, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	db.Instance = database
	require.NoError(t, models.Init())
	user, err := models.UserCreate("leo", "leo@example.com", "secret-pass-1")
	require.NoError(t, err)
	return user
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("yatube", cookie.NewStore([]byte("test key"))))
	r.Use(UserMiddleware)
	r.Use(CSRFMiddleware(func(c *gin.Context) {
		c.String(http.StatusForbidden, "csrf")
	}))
	return r
}

func cookiesFrom(w *httptest.ResponseRecorder) []*http.Cookie {
	return w.Result().Cookies()
}

func serve(r *gin.Engine, req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginRequiredRedirects(t *testing.T) {
	setupDB(t)
	r := newRouter()
	authRouter := &Router{Base: r, LoginURL: "/auth/login/"}
	authRouter.GET("/create/", func(c *gin.Context, user *models.User) {
		c.String(http.StatusOK, user.Username)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/create/?a=1", nil), nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=%2Fcreate%2F%3Fa%3D1", w.Header().Get("Location"))
}

func TestSessionLoginLogout(t *testing.T) {
	user := setupDB(t)
	r := newRouter()
	authRouter := &Router{Base: r, LoginURL: "/auth/login/"}
	r.GET("/login", func(c *gin.Context) {
		require.NoError(t, LoadSession(c).LoginUser(c, &user))
		c.String(http.StatusOK, CSRFToken(c))
	})
	r.GET("/logout", func(c *gin.Context) {
		require.NoError(t, LoadSession(c).LogoutUser(c))
		assert.Nil(t, CurrentUser(c))
		c.Status(http.StatusOK)
	})
	authRouter.GET("/me", func(c *gin.Context, u *models.User) {
		c.String(http.StatusOK, u.Username)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/login", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := cookiesFrom(w)
	require.NotEmpty(t, cookies)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/me", nil), cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "leo", w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/logout", nil), cookies)
	require.Equal(t, http.StatusOK, w.Code)
	w = serve(r, httptest.NewRequest(http.MethodGet, "/me", nil), cookiesFrom(w))
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestCSRFMiddleware(t *testing.T) {
	setupDB(t)
	r := newRouter()
	r.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, CSRFToken(c))
	})
	r.POST("/form", func(c *gin.Context) {
		c.String(http.StatusOK, "saved")
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/form", nil), nil)
	token := w.Body.String()
	require.NotEmpty(t, token)
	cookies := cookiesFrom(w)

	post := func(form url.Values, header string, cookies []*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header != "" {
			req.Header.Set(CSRFHeader, header)
		}
		return serve(r, req, cookies)
	}

	assert.Equal(t, http.StatusForbidden, post(url.Values{}, "", cookies).Code)
	assert.Equal(t, http.StatusForbidden, post(url.Values{CSRFFormField: {"wrong"}}, "", cookies).Code)
	assert.Equal(t, http.StatusForbidden, post(url.Values{CSRFFormField: {token}}, "", nil).Code)

	w = post(url.Values{CSRFFormField: {token}}, "", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "saved", w.Body.String())
	assert.Equal(t, http.StatusOK, post(url.Values{}, token, cookies).Code)
}

func TestUID(t *testing.T) {
	for _, id := range []uint64{1, 42, 18446744073709551615} {
		decoded, err := DecodeUID(EncodeUID(id))
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
	for _, bad := range []string{"", "<uidb64>", "!!!", EncodeUID(0), "YWJj"} {
		_, err := DecodeUID(bad)
		assert.ErrorIs(t, err, ErrInvalidUID, bad)
	}
}
