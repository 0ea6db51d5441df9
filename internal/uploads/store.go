package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/codewithmk180105/attendance-portal/pkg/errors"
)

// maxUploadSize caps stored files at 10 MiB.
const maxUploadSize = 10 << 20

// allowedExtensions lists the file types accepted for supporting documents
// and profile pictures.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
}

// Store persists uploaded files and returns their public URL path.
type Store interface {
	Save(file *multipart.FileHeader) (string, error)
}

// LocalStore writes uploads to a directory served statically by the router.
type LocalStore struct {
	dir       string
	publicURL string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, publicURL string) (*LocalStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("uploads: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: create directory: %w", err)
	}
	publicURL = strings.TrimSuffix(publicURL, "/")
	if publicURL == "" {
		publicURL = "/uploads"
	}
	return &LocalStore{dir: dir, publicURL: publicURL}, nil
}

// Save stores the uploaded file under a uuid-prefixed name and returns the
// public path clients can fetch it from.
func (s *LocalStore) Save(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", apperrors.NewBadRequest("no file provided")
	}
	if file.Size > maxUploadSize {
		return "", apperrors.NewBadRequest("file exceeds the 10MB limit")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", apperrors.NewBadRequest("unsupported file type")
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(s.dir, name)

	src, err := file.Open()
	if err != nil {
		return "", apperrors.Wrap(err, "open upload")
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", apperrors.Wrap(err, "create upload file")
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return "", apperrors.Wrap(err, "write upload")
	}

	return s.publicURL + "/" + name, nil
}

// Dir reports the backing directory, used to mount the static route.
func (s *LocalStore) Dir() string {
	return s.dir
}
