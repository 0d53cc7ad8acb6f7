package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// MaxScreenshotSize is the fixed ceiling for payment screenshot uploads.
const MaxScreenshotSize = 5 << 20 // 5 MiB

// FileUpload is a binary payload handed to the upload adapter.
type FileUpload struct {
	Content     io.Reader
	Size        int64
	ContentType string
}

// GetExtensionFromContentType maps an image content type to a file
// extension for the storage key.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			// Strip suffixes like "+xml" (e.g. "image/svg+xml").
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type: %q", contentType)
	}
}

// buildObjectKey produces a random storage key under the given folder,
// e.g. "payment_screenshots/0d7c3a… .png".
func buildObjectKey(folder, contentType string) (string, error) {
	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext), nil
}
