package storage

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ImagesLocation is the storage prefix for post images.
const ImagesLocation = "posts"

type StorageAPI interface {
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
	GetBucket() *Bucket
}

type Storage struct {
	Bucket Bucket
}

func (s *Storage) GetBucket() *Bucket {
	return &s.Bucket
}

var (
	cachedStorage StorageAPI
)

func Init() error {
	bucket := BucketFromConfig()
	storage, err := New(&bucket)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"name": bucket.Name, "type": bucket.StorageType}).Info("Media storage ready")
	cachedStorage = storage
	return nil
}

func New(bucket *Bucket) (StorageAPI, error) {
	switch bucket.StorageType {
	case StorageTypeFile:
		return NewDiskStorage(bucket), nil
	case StorageTypeS3:
		return NewS3Storage(bucket)
	}
	return nil, fmt.Errorf("storage type %d unavailable for bucket %s", bucket.StorageType, bucket.Name)
}

func GetDefaultStorage() StorageAPI {
	if cachedStorage == nil {
		panic("no storage available")
	}
	return cachedStorage
}

func SetDefaultStorage(s StorageAPI) {
	cachedStorage = s
}

// imageExtensions maps decoder names to the extension images are stored
// with. Anything else is never written.
var imageExtensions = map[string]string{
	"gif":  ".gif",
	"jpeg": ".jpg",
	"png":  ".png",
}

// ImageExtension returns the stored extension for a decoded image format.
func ImageExtension(format string) (string, bool) {
	ext, ok := imageExtensions[format]
	return ext, ok
}

// IsImagePath reports whether p has an extension images are stored with.
func IsImagePath(p string) bool {
	return mimeTypeFor(p) != "application/octet-stream"
}

// NewImagePath returns a fresh unique path for an uploaded image of the
// given decoded format. Unknown formats get ok=false.
func NewImagePath(format string) (p string, ok bool) {
	ext, ok := ImageExtension(format)
	if !ok {
		return "", false
	}
	return ImagesLocation + "/" + uuid.NewString() + ext, true
}

// CleanPath normalizes a client supplied path and reports whether it
// points inside the images location.
func CleanPath(p string) (string, bool) {
	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	if !strings.HasPrefix(cleaned, ImagesLocation+"/") {
		return "", false
	}
	return cleaned, true
}

func mimeTypeFor(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	}
	return "application/octet-stream"
}
