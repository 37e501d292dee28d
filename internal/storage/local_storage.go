package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"pinax-social-backend/internal/logger"
)

// LocalStorage implements MediaStorage on the local filesystem
type LocalStorage struct {
	baseURL string // Server URL (e.g., "http://localhost:8080")
	rootDir string
}

// NewLocalStorage creates the upload directory when missing
func NewLocalStorage(baseURL, uploadDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		rootDir: uploadDir,
	}, nil
}

// NewKey builds a unique key under prefix keeping the extension of filename.
func NewKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 10 {
		ext = ""
	}
	return path.Join(prefix, uuid.New().String()+ext)
}

func (s *LocalStorage) fullPath(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.rootDir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (s *LocalStorage) Save(ctx context.Context, key string, reader io.Reader, maxBytes int64) (int64, error) {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	src := reader
	if maxBytes > 0 {
		src = io.LimitReader(reader, maxBytes+1)
	}
	written, err := io.Copy(file, src)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(fullPath)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	if maxBytes > 0 && written > maxBytes {
		os.Remove(fullPath)
		return 0, ErrTooLarge
	}

	logger.Debug("Stored media file", "key", key, "size", written)
	return written, nil
}

func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, int64, error) {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return false, 0, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	return s.baseURL + "/media/" + key
}
