// utils/upload.go
package utils

import (
	"fmt"
	"log"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"beautycrm-backend/config"

	"github.com/gin-gonic/gin"
)

// Attachment allow-list: images, PDF and Word documents
var AllowedFileTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Product photos must be images
var AllowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
}

// UploadError is a rejected upload: disallowed MIME type or size cap exceeded.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

func contentType(file *multipart.FileHeader) string {
	return file.Header.Get("Content-Type")
}

func allowed(types []string, mime string) bool {
	for _, t := range types {
		if t == mime {
			return true
		}
	}
	return false
}

// ValidateAttachment rejects a general attachment before anything is stored.
func ValidateAttachment(file *multipart.FileHeader) error {
	if !allowed(AllowedFileTypes, contentType(file)) {
		return &UploadError{"Invalid file type. Only JPEG, PNG, GIF, PDF, and Word files are allowed."}
	}
	if file.Size > config.MaxFileSize {
		return &UploadError{fmt.Sprintf("File %s exceeds the %dMB size limit", file.Filename, config.MaxFileSize/(1024*1024))}
	}
	return nil
}

// ValidateProductPhoto rejects a product photo before anything is stored.
func ValidateProductPhoto(file *multipart.FileHeader) error {
	if !allowed(AllowedImageTypes, contentType(file)) {
		return &UploadError{"Invalid file type. Only JPEG, PNG, and GIF images are allowed for product photos."}
	}
	if file.Size > config.MaxProductPhotoSize {
		return &UploadError{fmt.Sprintf("Product photo exceeds the %dMB size limit", config.MaxProductPhotoSize/(1024*1024))}
	}
	return nil
}

// UploadDir returns the storage root, creating it if needed.
func UploadDir() string {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("Failed to create upload dir %s: %v", dir, err)
	}
	return dir
}

// UniqueFileName keeps the original extension under a collision-safe name.
func UniqueFileName(original string) string {
	suffix := fmt.Sprintf("%d-%d", time.Now().UnixMilli(), rand.Intn(1_000_000_000))
	return suffix + filepath.Ext(original)
}

// SaveUploadedFile writes the file under the upload dir and returns its path.
func SaveUploadedFile(c *gin.Context, file *multipart.FileHeader) (string, error) {
	path := filepath.Join(UploadDir(), UniqueFileName(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}

// RemoveFile deletes a stored file. Best effort: failures are logged so the
// primary error still reaches the caller.
func RemoveFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove file %s: %v", path, err)
	}
}

// RemoveFiles deletes every path, best effort.
func RemoveFiles(paths []string) {
	for _, p := range paths {
		RemoveFile(p)
	}
}
