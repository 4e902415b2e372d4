package storage

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorage(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStorage(&Bucket{Name: "test", Path: dir})

	n, err := s.Save("posts/a/b.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	buf := bytes.Buffer{}
	_, err = s.Load("posts/a/b.txt", &buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", buf.String())

	w := httptest.NewRecorder()
	s.Serve("posts/a/b.txt", httptest.NewRequest(http.MethodGet, "/media/posts/a/b.txt", nil), w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())

	require.NoError(t, s.Delete("posts/a/b.txt"))
	require.NoError(t, s.Delete("posts/a/b.txt"))
	_, err = s.Load("posts/a/b.txt", &buf)
	assert.Error(t, err)
}

func TestDiskStorageStaysInBasePath(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStorage(&Bucket{Path: dir}).(*DiskStorage)
	assert.True(t, strings.HasPrefix(s.getFullPath("../../etc/passwd"), dir))
}

func TestNewImagePath(t *testing.T) {
	p, ok := NewImagePath("png")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(p, "posts/"))
	assert.True(t, strings.HasSuffix(p, ".png"))
	other, _ := NewImagePath("png")
	assert.NotEqual(t, p, other)

	p, ok = NewImagePath("jpeg")
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(p, ".jpg"))

	_, ok = NewImagePath("html")
	assert.False(t, ok)
	_, ok = NewImagePath("")
	assert.False(t, ok)
}

func TestIsImagePath(t *testing.T) {
	assert.True(t, IsImagePath("posts/a.JPG"))
	assert.True(t, IsImagePath("posts/a_thumb.jpg"))
	assert.True(t, IsImagePath("posts/a.gif"))
	assert.False(t, IsImagePath("posts/a.html"))
	assert.False(t, IsImagePath("posts/a"))
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"posts/a.jpg", "posts/a.jpg", true},
		{"/posts/a.jpg", "posts/a.jpg", true},
		{"posts/../secret", "", false},
		{"../posts/a.jpg", "posts/a.jpg", true},
		{"other/a.jpg", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := CleanPath(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestBucketRemotePath(t *testing.T) {
	b := Bucket{Path: "/yatube/"}
	assert.Equal(t, "yatube/posts/a.jpg", b.GetRemotePath("posts/a.jpg"))
	b.Path = ""
	assert.Equal(t, "posts/a.jpg", b.GetRemotePath("posts/a.jpg"))
}

func TestNewS3Storage(t *testing.T) {
	s, err := New(&Bucket{Name: "media", StorageType: StorageTypeS3, Region: "eu-west-1", Endpoint: "http://127.0.0.1:9000", AuthDetails: "key:secret"})
	require.NoError(t, err)
	assert.Equal(t, "media", s.GetBucket().Name)

	w := httptest.NewRecorder()
	s.Serve("posts/a.jpg", httptest.NewRequest(http.MethodGet, "/media/posts/a.jpg", nil), w)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/media/posts/a.jpg")
	assert.Contains(t, w.Header().Get("Location"), "X-Amz-Signature")
}
