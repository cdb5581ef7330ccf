package handlers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/nriproperty/portal/pkg/errors"
)

// maxUploadBytes caps contract and document uploads at 10 MiB.
const maxUploadBytes = 10 << 20

var allowedUploadExtensions = map[string]struct{}{
	".pdf":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// saveUpload validates the file type and size, then writes it under dir with
// a generated name. It returns the stored path relative to the uploads root.
func saveUpload(c *gin.Context, file *multipart.FileHeader, dir string) (string, error) {
	if file.Size > maxUploadBytes {
		return "", apperrors.NewBadRequest("File exceeds the 10MB limit")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedUploadExtensions[ext]; !ok {
		return "", apperrors.NewBadRequest("Only PDF, PNG and JPG files are accepted")
	}

	name := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	dest := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		return "", apperrors.Wrap(err, "Failed to store uploaded file")
	}

	return dest, nil
}
