// internal/app/system/uploads/uploads.go

// Package uploads stores attachment files on local disk and validates
// them against per-feature rules before anything touches the disk.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dalemusser/teamhub/internal/domain/models"
)

// Limits shared by the attachment endpoints.
const (
	// MaxMeetingAttachments caps the number of PDF files on a meeting.
	MaxMeetingAttachments = 5

	// MaxDocumentSize caps a single office document (papers).
	MaxDocumentSize = 10 << 20 // 10 MiB
)

var (
	ErrNotPDF          = errors.New("attachment must be a PDF")
	ErrNotOfficeDoc    = errors.New("attachment must be a PDF or Word document")
	ErrTooLarge        = errors.New("attachment exceeds the size limit")
	ErrTooManyFiles    = errors.New("too many attachments")
	ErrMissingFilename = errors.New("attachment has no filename")
)

// officeDocTypes are the accepted MIME types for paper uploads.
var officeDocTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// contentType returns the declared Content-Type without parameters,
// lowercased. Browsers are trusted only as a first-line check; the
// extension is checked too because some send application/octet-stream.
func contentType(h *multipart.FileHeader) string {
	ct := h.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// CheckPDF validates a single PDF upload header.
func CheckPDF(h *multipart.FileHeader) error {
	if strings.TrimSpace(h.Filename) == "" {
		return ErrMissingFilename
	}
	ct := contentType(h)
	ext := strings.ToLower(filepath.Ext(h.Filename))
	if ct == "application/pdf" || (ct == "application/octet-stream" || ct == "") && ext == ".pdf" {
		return nil
	}
	return ErrNotPDF
}

// CheckPDFBatch validates a set of meeting attachments: at most
// MaxMeetingAttachments files, each a PDF.
func CheckPDFBatch(headers []*multipart.FileHeader) error {
	if len(headers) > MaxMeetingAttachments {
		return fmt.Errorf("%w: %d files, limit is %d", ErrTooManyFiles, len(headers), MaxMeetingAttachments)
	}
	for _, h := range headers {
		if err := CheckPDF(h); err != nil {
			return fmt.Errorf("%s: %w", h.Filename, err)
		}
	}
	return nil
}

// CheckOfficeDoc validates a single paper upload: a PDF or Word
// document no larger than MaxDocumentSize.
func CheckOfficeDoc(h *multipart.FileHeader) error {
	if strings.TrimSpace(h.Filename) == "" {
		return ErrMissingFilename
	}
	if h.Size > MaxDocumentSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrTooLarge, h.Size, MaxDocumentSize)
	}
	ct := contentType(h)
	if officeDocTypes[ct] {
		return nil
	}
	switch strings.ToLower(filepath.Ext(h.Filename)) {
	case ".pdf", ".doc", ".docx":
		if ct == "application/octet-stream" || ct == "" {
			return nil
		}
	}
	return ErrNotOfficeDoc
}

// Store writes uploads under a base directory, one subdirectory per
// feature, with random filenames so client-supplied names never reach
// the filesystem.
type Store struct {
	dir string
}

// NewStore creates the base directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save streams one upload to disk under dir/<category>/ and returns its
// stored metadata. The stored name is a UUID plus the original
// extension.
func (s *Store) Save(category string, file multipart.File, header *multipart.FileHeader) (models.StoredFile, error) {
	subdir := filepath.Join(s.dir, category)
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		return models.StoredFile{}, fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(subdir, name))
	if err != nil {
		return models.StoredFile{}, fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(dst.Name())
		return models.StoredFile{}, fmt.Errorf("write upload: %w", err)
	}

	return models.StoredFile{
		Name:         name,
		OriginalName: filepath.Base(header.Filename),
		ContentType:  contentType(header),
		Size:         size,
		UploadedAt:   time.Now().UTC(),
	}, nil
}

// Path returns the on-disk path for a stored file name within a
// category. The name is cleaned so path traversal in a stored record
// cannot escape the base directory.
func (s *Store) Path(category, name string) string {
	return filepath.Join(s.dir, category, filepath.Base(name))
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Store) Remove(category, name string) error {
	err := os.Remove(s.Path(category, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
