// Package deploy uploads build artifacts to S3-compatible object storage.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrNotConfigured is returned by upload steps when no storage endpoint is set.
var ErrNotConfigured = errors.New("deploy storage not configured")

// Settings configures the object storage target.
type Settings struct {
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"accessKey"`
	SecretKey string `json:"secretKey"`
	Bucket    string `json:"bucket"`
	UseSSL    bool   `json:"useSSL"`
	Region    string `json:"region"`
}

// Configured reports whether an endpoint is set.
func (s Settings) Configured() bool {
	return s.Endpoint != ""
}

// Uploaded describes one stored object.
type Uploaded struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Size   int64  `json:"size"`
}

// Uploader stores a local file or directory tree under key in bucket.
type Uploader interface {
	Upload(ctx context.Context, bucket, key, localPath string) ([]Uploaded, error)
}

// MinioUploader implements Uploader with minio-go.
type MinioUploader struct {
	client *minio.Client
	bucket string
	region string
}

// NewMinioUploader creates an uploader for s.
func NewMinioUploader(s Settings) (*MinioUploader, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	client, err := minio.New(s.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s.AccessKey, s.SecretKey, ""),
		Secure: s.UseSSL,
		Region: s.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &MinioUploader{client: client, bucket: s.Bucket, region: s.Region}, nil
}

// Upload puts localPath into bucket. A directory is uploaded file by file
// with keys prefixed by key. An empty bucket uses the configured default and
// the bucket is created when missing.
func (u *MinioUploader) Upload(ctx context.Context, bucket, key, localPath string) ([]Uploaded, error) {
	if bucket == "" {
		bucket = u.bucket
	}
	if bucket == "" {
		return nil, fmt.Errorf("upload %s: no bucket", localPath)
	}

	if err := u.ensureBucket(ctx, bucket); err != nil {
		return nil, err
	}

	objects, err := Objects(localPath, key)
	if err != nil {
		return nil, err
	}

	uploaded := make([]Uploaded, 0, len(objects))
	for _, obj := range objects {
		info, err := u.client.FPutObject(ctx, bucket, obj.Key, obj.Path, minio.PutObjectOptions{})
		if err != nil {
			return uploaded, fmt.Errorf("upload %s: %w", obj.Path, err)
		}
		uploaded = append(uploaded, Uploaded{Bucket: bucket, Key: info.Key, Size: info.Size})
	}
	return uploaded, nil
}

func (u *MinioUploader) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := u.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: u.region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

// Object is one local file and the key it is stored under.
type Object struct {
	Path string
	Key  string
}

// Objects expands localPath into the files to upload. A file keeps key, or
// its base name when key is empty. A directory maps each file to
// key/<relative path>.
func Objects(localPath, key string) ([]Object, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", localPath, err)
	}

	if !info.IsDir() {
		if key == "" {
			key = filepath.Base(localPath)
		}
		return []Object{{Path: localPath, Key: key}}, nil
	}

	prefix := strings.Trim(key, "/")
	var objects []Object
	err = filepath.WalkDir(localPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(localPath, p)
		if err != nil {
			return err
		}
		objects = append(objects, Object{Path: p, Key: path.Join(prefix, filepath.ToSlash(rel))})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", localPath, err)
	}
	return objects, nil
}
