package storage

import (
	"context"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/vidhub/backend/internal/config"
	"github.com/vidhub/backend/pkg/logger"
)

// MinIOStore keeps avatars in an object bucket. Stored paths have the form
// /<bucket>/avatars/<filename>, which a bucket with a public read policy
// serves directly.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

func NewMinIOStore(cfg config.MinIOConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &MinIOStore{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (m *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
}

func (m *MinIOStore) Save(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := path.Join(avatarDir, filename)

	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error("avatar_store_failed", err, map[string]interface{}{
			"backend":     "minio",
			"bucket":      m.bucket,
			"object_name": objectName,
		})
		return "", err
	}

	logger.Info("avatar_stored", map[string]interface{}{
		"backend":      "minio",
		"bucket":       m.bucket,
		"object_name":  objectName,
		"size":         size,
		"content_type": contentType,
	})

	return "/" + path.Join(m.bucket, objectName), nil
}

func (m *MinIOStore) Remove(ctx context.Context, publicPath string) error {
	objectName := path.Join(avatarDir, path.Base(publicPath))
	// RemoveObject is a no-op for objects that are already gone.
	return m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
}
