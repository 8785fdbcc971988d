// Package filestore хранит файлы респондентов на локальном диске.
package filestore

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store сохраняет загруженные файлы в каталоге на диске.
// Имена файлов генерируются заново, клиентское имя сохраняется только в расширении.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore создает хранилище в каталоге dir, создавая его при необходимости
func NewStore(dir string, maxSizeMB int) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("filestore: dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: failed to create dir %s: %w", dir, err)
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &Store{
		dir:      dir,
		maxBytes: int64(maxSizeMB) << 20,
	}, nil
}

// Save записывает один multipart-файл на диск и возвращает его относительное имя.
// Путь от клиента полностью отбрасывается, берётся только расширение.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxBytes {
		return "", fmt.Errorf("filestore: file %q exceeds size limit (%d bytes)", fh.Filename, s.maxBytes)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("filestore: failed to open upload: %w", err)
	}
	defer src.Close()

	ext := sanitizeExt(filepath.Ext(fh.Filename))
	name := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("filestore: failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, s.maxBytes)); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("filestore: failed to write file: %w", err)
	}

	return name, nil
}

// Open открывает сохранённый файл по имени, запрещая выход из каталога
func (s *Store) Open(name string) (*os.File, error) {
	clean := filepath.Base(name)
	if clean != name || clean == "." || clean == ".." {
		return nil, fmt.Errorf("filestore: invalid file name %q", name)
	}
	return os.Open(filepath.Join(s.dir, clean))
}

// sanitizeExt оставляет только безопасное короткое расширение
func sanitizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if len(ext) > 10 {
		return ""
	}
	for _, r := range ext {
		if r != '.' && (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
