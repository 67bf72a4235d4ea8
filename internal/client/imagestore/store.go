// Package imagestore archives the images sent for analysis and hands back a
// reference the results view can show: a file path for the local archive or
// a time-limited URL for an S3-compatible bucket.
package imagestore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store archives one image and returns a reference to it.
type Store interface {
	Put(ctx context.Context, name string, data []byte) (ref string, err error)
}

// objectKey builds a unique, date-partitioned key that keeps the original
// extension, e.g. "images/2024/5/1/<uuid>.jpg".
func objectKey(now time.Time, name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return fmt.Sprintf("images/%d/%d/%d/%s%s", now.Year(), now.Month(), now.Day(), uuid.New(), ext)
}
