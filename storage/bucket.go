package storage

import (
	"strings"

	"github.com/Shkitskiy94/hw05-final/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

// Bucket describes where uploaded media lives.
type Bucket struct {
	Name        string
	StorageType StorageType
	Path        string // Path on a drive or a prefix in a S3 bucket
	Region      string
	Endpoint    string
	AuthDetails string // In case of S3 bucket - "key:secret"
}

func BucketFromConfig() Bucket {
	if config.S3_BUCKET == "" {
		return Bucket{
			Name:        "media",
			StorageType: StorageTypeFile,
			Path:        config.MEDIA_DIR,
		}
	}
	b := Bucket{
		Name:        config.S3_BUCKET,
		StorageType: StorageTypeS3,
		Path:        config.S3_PREFIX,
		Region:      config.S3_REGION,
		Endpoint:    config.S3_ENDPOINT,
	}
	if config.S3_KEY != "" {
		b.AuthDetails = config.S3_KEY + ":" + config.S3_SECRET
	}
	return b
}

// GetRemotePath prepends the configured prefix to an object path.
func (b *Bucket) GetRemotePath(path string) string {
	prefix := strings.Trim(b.Path, "/")
	if prefix == "" {
		return path
	}
	return prefix + "/" + path
}

func (b *Bucket) CreateSVC() (*s3.S3, error) {
	cfg := aws.NewConfig().WithRegion(b.Region)
	if b.Endpoint != "" {
		cfg = cfg.WithEndpoint(b.Endpoint).WithS3ForcePathStyle(true)
	}
	if key, secret, ok := strings.Cut(b.AuthDetails, ":"); ok {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(key, secret, ""))
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}
