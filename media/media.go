package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"ourphotos/config"

	"github.com/google/uuid"
)

// Store is the media host: it accepts binary uploads and hands back public
// URLs. Object names are opaque to everything above this package.
type Store interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (url string, err error)
	Delete(ctx context.Context, objectName string) error
}

// Init creates the configured backend.
func Init() (Store, error) {
	switch config.MEDIA_BACKEND {
	case "minio":
		return NewMinIOStore()
	case "s3":
		return NewS3Store()
	}
	return nil, fmt.Errorf("unknown media backend %q", config.MEDIA_BACKEND)
}

// NewObjectName builds a unique object name scoped to the owner and album.
func NewObjectName(userID, albumID uint64, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("u%d/a%d/%s%s", userID, albumID, uuid.NewString(), ext)
}

// ThumbObjectName names the thumbnail stored alongside a full-size object.
func ThumbObjectName(objectName string) string {
	ext := path.Ext(objectName)
	return strings.TrimSuffix(objectName, ext) + "_thumb.jpg"
}
