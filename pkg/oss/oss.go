package oss

import (
	"context"
	"errors"
	"path"
	"strings"

	"VidTube.com/cmd/model"
)

var ErrUnsupportedType = errors.New("unsupported content type")

// BlobStore 外部文件存储，ID 是对象名，URL 对外可访问
type BlobStore interface {
	Upload(ctx context.Context, localPath, contentType string) (*model.Blob, error)
	Delete(ctx context.Context, id string) error
}

var suffixes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
}

// objectName 按媒体类型分目录
func objectName(id, contentType string) (string, error) {
	suffix, ok := suffixes[strings.ToLower(contentType)]
	if !ok {
		return "", ErrUnsupportedType
	}
	dir := "picture"
	if strings.HasPrefix(contentType, "video/") {
		dir = "video"
	}
	return path.Join(dir, id+suffix), nil
}
