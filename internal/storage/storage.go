package storage

import (
	"context"
)

// ImageStorage keeps profile images (headshots, covers) and returns their
// public URLs.
type ImageStorage interface {
	UploadImage(ctx context.Context, data []byte, filename, folder string) (string, error)

	DeleteImage(ctx context.Context, fileURL string) error
}
