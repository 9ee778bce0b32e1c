package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const DefaultMaxUploadBytes int64 = 5 << 20

var allowedUploadTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type Upload struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// UploadService сохраняет изображения в каталог dir. Тип файла определяется по содержимому, а не по имени.
type UploadService struct {
	dir      string
	baseURL  string
	maxBytes int64
}

func NewUploadService(dir, baseURL string, maxBytes int64) (*UploadService, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads dir: %w", err)
	}
	return &UploadService{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
	}, nil
}

func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

// Save читает файл из r и сохраняет его под случайным именем. Возвращает domain.ErrFileTooLarge при превышении
// лимита и domain.ErrUnsupportedMedia, если содержимое не jpeg, png, gif или webp.
func (s *UploadService) Save(_ context.Context, r io.Reader) (*Upload, error) {
	data, readErr := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if readErr != nil {
		return nil, fmt.Errorf("reading upload: %w", readErr)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("upload exceeds %d bytes: %w", s.maxBytes, domain.ErrFileTooLarge)
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedUploadTypes...) {
		return nil, fmt.Errorf("upload of %s: %w", mtype.String(), domain.ErrUnsupportedMedia)
	}

	filename := uuid.NewString() + mtype.Extension()
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil { //nolint:gosec
		return nil, fmt.Errorf("writing upload: %w", err)
	}

	return &Upload{
		URL:         s.baseURL + "/uploads/" + filename,
		Filename:    filename,
		ContentType: mtype.String(),
		Size:        int64(len(data)),
	}, nil
}
