package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Minute))
	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	require.NoError(t, s.Set(ctx, "short", []byte("2"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	_, err = s.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestNewRedisStoreBadURL(t *testing.T) {
	_, err := NewRedisStore("not a url", "yatube:")
	assert.Error(t, err)
}

func TestRedisStoreUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	s := NewRedisStoreWithClient(client, "yatube:")
	_, err := s.Get(context.Background(), "a")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestPageMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewMemoryStore()
	calls := 0
	content := "first"
	user := "anon"

	r := gin.New()
	r.GET("/", Page(store, time.Minute, func(c *gin.Context) string { return user }), func(c *gin.Context) {
		calls++
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(content))
	})
	r.GET("/missing", Page(store, time.Minute, nil), func(c *gin.Context) {
		calls++
		c.String(http.StatusNotFound, "nope")
	})
	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/")
	assert.Equal(t, "first", w.Body.String())
	content = "second"
	w = get("/")
	assert.Equal(t, "first", w.Body.String())
	assert.Equal(t, "hit", w.Header().Get("X-Page-Cache"))
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, 1, calls)

	// different query string and different user are separate entries
	assert.Equal(t, "second", get("/?page=2").Body.String())
	user = "leo"
	assert.Equal(t, "second", get("/").Body.String())
	assert.Equal(t, 3, calls)

	require.NoError(t, store.Clear(context.Background()))
	user = "anon"
	assert.Equal(t, "second", get("/").Body.String())
	assert.Equal(t, 4, calls)

	get("/missing")
	get("/missing")
	assert.Equal(t, 6, calls)
}
