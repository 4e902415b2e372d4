package web

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/Shkitskiy94/hw05-final/cache"
	"github.com/Shkitskiy94/hw05-final/config"
	"github.com/Shkitskiy94/hw05-final/db"
	"github.com/Shkitskiy94/hw05-final/mail"
	"github.com/Shkitskiy94/hw05-final/models"
	"github.com/Shkitskiy94/hw05-final/processing"
	"github.com/Shkitskiy94/hw05-final/storage"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	ginrender "github.com/gin-gonic/gin/render"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// recordingRender remembers which template was rendered with what context.
// The body is the template name followed by the texts of the listed posts.
type recordingRender struct {
	mu   sync.Mutex
	name string
	data gin.H
}

func (r *recordingRender) Instance(name string, data any) ginrender.Render {
	h, _ := data.(gin.H)
	r.mu.Lock()
	r.name, r.data = name, h
	r.mu.Unlock()

	body := &strings.Builder{}
	body.WriteString(name + "\n")
	if page, ok := h["page_obj"].(*models.Page[models.Post]); ok {
		for _, post := range page.Items {
			body.WriteString(post.Text + "\n")
		}
	}
	return ginrender.Data{ContentType: "text/html; charset=utf-8", Data: []byte(body.String())}
}

func (r *recordingRender) last() (string, gin.H) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name, r.data
}

type recordingSender struct {
	messages []mail.Message
}

func (s *recordingSender) Send(msg mail.Message) error {
	s.messages = append(s.messages, msg)
	return nil
}

type testEnv struct {
	t         *testing.T
	router    *gin.Engine
	renderer  *recordingRender
	pageCache cache.Store
	store     storage.StorageAPI
	sender    *recordingSender
}

func setup(t *testing.T) *testEnv {
	return setupWith(t, true)
}

func setupWith(t *testing.T, skipCSRF bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	models.PasswordCost = bcrypt.MinCost
	config.POSTS_PER_PAGE = 10
	config.INDEX_CACHE_SECONDS = 20
	config.SITE_URL = "http://testserver"

	database, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	db.Instance = database
	require.NoError(t, models.Init())
	require.NoError(t, processing.Init())

	env := &testEnv{
		t:         t,
		renderer:  &recordingRender{},
		pageCache: cache.NewMemoryStore(),
		store:     storage.NewDiskStorage(&storage.Bucket{Name: "test", Path: t.TempDir()}),
		sender:    &recordingSender{},
	}
	storage.SetDefaultStorage(env.store)
	mail.SetDefault(env.sender)
	env.router = NewRouter(Options{
		SessionStore: cookie.NewStore([]byte("test session key")),
		PageCache:    env.pageCache,
		HTMLRender:   env.renderer,
		SkipCSRF:     skipCSRF,
	})
	return env
}

func (env *testEnv) user(username string) *models.User {
	env.t.Helper()
	u, err := models.UserCreate(username, username+"@example.com", "secret-pass-1")
	require.NoError(env.t, err)
	return &u
}

func (env *testEnv) group(slug string) *models.Group {
	env.t.Helper()
	g := models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	require.NoError(env.t, g.Create())
	return &g
}

func (env *testEnv) post(author *models.User, text string, group *models.Group) *models.Post {
	env.t.Helper()
	p := models.Post{AuthorID: author.ID, Text: text}
	p.SetGroup(group)
	require.NoError(env.t, p.Create())
	return &p
}

// client keeps cookies between requests like a browser.
type client struct {
	env     *testEnv
	cookies map[string]*http.Cookie
}

func (env *testEnv) client() *client {
	return &client{env: env, cookies: map[string]*http.Cookie{}}
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	cl.env.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(cl.cookies, c.Name)
			continue
		}
		cl.cookies[c.Name] = c
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) post(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func (cl *client) postMultipart(path string, values map[string]string, fileName string, content []byte) *httptest.ResponseRecorder {
	cl.env.t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range values {
		require.NoError(cl.env.t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("image", fileName)
		require.NoError(cl.env.t, err)
		_, err = part.Write(content)
		require.NoError(cl.env.t, err)
	}
	require.NoError(cl.env.t, w.Close())
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return cl.do(req)
}

func (cl *client) login(username string) *client {
	cl.env.t.Helper()
	w := cl.post(LoginURL, url.Values{"username": {username}, "password": {"secret-pass-1"}})
	require.Equal(cl.env.t, http.StatusFound, w.Code)
	return cl
}

func smallPNG(t *testing.T) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}
