// Package storage keeps uploaded post images outside the relational store.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anonto42/socialgraph/backend/internal/apperrors"
	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted upload, in bytes.
const MaxImageSize = 5 << 20

// Store persists a file and returns the public URL it is reachable at.
// Failures wrap apperrors.ErrStorage.
type Store interface {
	Save(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// Opener is implemented by stores whose objects are served by this process
// rather than by a web server or bucket.
type Opener interface {
	Open(ctx context.Context, id string) (io.ReadCloser, string, error)
}

var ErrMediaNotFound = apperrors.New(apperrors.KindNotFound, "Media not found")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// CheckImage sniffs data and returns its content type and file extension.
// Anything that is not a supported image, or is too large, is
// apperrors.ErrInvalidImage.
func CheckImage(data []byte) (contentType, ext string, err error) {
	if len(data) == 0 || len(data) > MaxImageSize {
		return "", "", apperrors.ErrInvalidImage
	}
	contentType = http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", "", apperrors.ErrInvalidImage
	}
	return contentType, ext, nil
}

// ObjectKey returns a unique, date partitioned key such as
// posts/2024/5/1/<uuid>.png.
func ObjectKey(now time.Time, ext string) string {
	return fmt.Sprintf("posts/%d/%d/%d/%s%s", now.Year(), now.Month(), now.Day(), uuid.New(), ext)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", apperrors.ErrStorage, op, err)
}
