package service

import (
	"context"
	"io"
)

type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
	// ThumbnailURL builds a delivery URL for a resized preview of an uploaded asset.
	ThumbnailURL(publicID string) (string, error)
}
