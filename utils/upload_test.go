package utils

import (
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"

	"beautycrm-backend/config"

	"github.com/stretchr/testify/assert"
)

func header(mime string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: "file" + extFor(mime),
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{mime}},
	}
}

func extFor(mime string) string {
	switch mime {
	case "application/pdf":
		return ".pdf"
	case "image/png":
		return ".png"
	default:
		return ".bin"
	}
}

func TestValidateAttachment(t *testing.T) {
	assert.NoError(t, ValidateAttachment(header("application/pdf", 1024)))
	assert.NoError(t, ValidateAttachment(header("image/jpeg", config.MaxFileSize)))
	assert.NoError(t, ValidateAttachment(header("application/msword", 1024)))

	err := ValidateAttachment(header("application/zip", 1024))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid file type")

	err = ValidateAttachment(header("application/pdf", config.MaxFileSize+1))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "size limit")
}

func TestValidateProductPhoto(t *testing.T) {
	assert.NoError(t, ValidateProductPhoto(header("image/png", 1024)))

	err := ValidateProductPhoto(header("application/pdf", 1024))
	assert.Error(t, err, "documents are not product photos")

	err = ValidateProductPhoto(header("image/png", config.MaxProductPhotoSize+1))
	assert.Error(t, err)
}

func TestUniqueFileNameKeepsExtension(t *testing.T) {
	a := UniqueFileName("photo.JPG")
	b := UniqueFileName("photo.JPG")
	assert.Equal(t, ".JPG", filepath.Ext(a))
	assert.NotEqual(t, a, b)
	assert.False(t, strings.Contains(a, "photo"), "original base name must not leak")
}

func TestUploadDirHonorsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOAD_DIR", dir)
	assert.Equal(t, dir, UploadDir())
}
