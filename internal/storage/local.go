package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/vidhub/backend/pkg/logger"
)

// PublicPrefix is the URL path avatars are served under.
const PublicPrefix = "/uploads"

const avatarDir = "avatars"

// LocalStore keeps avatar files on disk under root/avatars and expects the
// process to serve root as static content at PublicPrefix.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(root, avatarDir), 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: root}, nil
}

// Root returns the directory served as static content.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Save(_ context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	target := filepath.Join(s.root, avatarDir, filename)

	out, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		_ = os.Remove(target)
		return "", err
	}

	logger.Info("avatar_stored", map[string]interface{}{
		"backend":      "local",
		"filename":     filename,
		"size":         size,
		"content_type": contentType,
	})

	return path.Join(PublicPrefix, avatarDir, filename), nil
}

func (s *LocalStore) Remove(_ context.Context, publicPath string) error {
	// Only the generated filename is trusted from the stored path.
	target := filepath.Join(s.root, avatarDir, filepath.Base(publicPath))

	err := os.Remove(target)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
