package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
	// AllowedImageFormat is PNG
	AllowedImageFormat = ".png"
	// PhotoKeyPrefix is the bucket folder holding order photos
	PhotoKeyPrefix = "orders"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateImageFile validates the uploaded file format and size
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	if fileHeader == nil {
		return &FileUploadError{Code: "MISSING_FILE", Message: "No file was uploaded"}
	}

	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != AllowedImageFormat {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("Only %s files are allowed", AllowedImageFormat),
		}
	}

	return nil
}

// SanitizeFileName strips directories and replaces anything outside
// [A-Za-z0-9._-] with an underscore
func SanitizeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" {
		return "photo" + AllowedImageFormat
	}
	return unsafeFileChars.ReplaceAllString(base, "_")
}

// PhotoObjectKey builds the storage key of an order photo:
// orders/<token>/<unix seconds>_<file name>
func PhotoObjectKey(orderToken string, uploadedAt time.Time, fileName string) string {
	return fmt.Sprintf("%s/%s/%d_%s", PhotoKeyPrefix, orderToken, uploadedAt.Unix(), SanitizeFileName(fileName))
}
