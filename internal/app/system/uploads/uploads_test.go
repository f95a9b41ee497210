package uploads

import (
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"
)

func header(filename, contentType string, size int64) *multipart.FileHeader {
	h := &multipart.FileHeader{
		Filename: filename,
		Size:     size,
		Header:   textproto.MIMEHeader{},
	}
	if contentType != "" {
		h.Header.Set("Content-Type", contentType)
	}
	return h
}

func TestCheckPDF(t *testing.T) {
	tests := []struct {
		name    string
		header  *multipart.FileHeader
		wantErr error
	}{
		{"pdf mimetype", header("minutes.pdf", "application/pdf", 100), nil},
		{"octet-stream with pdf ext", header("minutes.pdf", "application/octet-stream", 100), nil},
		{"no content type with pdf ext", header("minutes.PDF", "", 100), nil},
		{"word doc", header("minutes.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", 100), ErrNotPDF},
		{"png", header("photo.png", "image/png", 100), ErrNotPDF},
		{"octet-stream wrong ext", header("minutes.txt", "application/octet-stream", 100), ErrNotPDF},
		{"empty filename", header("", "application/pdf", 100), ErrMissingFilename},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPDF(tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckPDF = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckPDFBatch(t *testing.T) {
	one := header("a.pdf", "application/pdf", 10)

	if err := CheckPDFBatch([]*multipart.FileHeader{one, one, one, one, one}); err != nil {
		t.Errorf("five PDFs: %v", err)
	}
	if err := CheckPDFBatch([]*multipart.FileHeader{one, one, one, one, one, one}); !errors.Is(err, ErrTooManyFiles) {
		t.Errorf("six PDFs = %v, want ErrTooManyFiles", err)
	}
	bad := []*multipart.FileHeader{one, header("b.txt", "text/plain", 10)}
	if err := CheckPDFBatch(bad); !errors.Is(err, ErrNotPDF) {
		t.Errorf("mixed batch = %v, want ErrNotPDF", err)
	}
	if err := CheckPDFBatch(nil); err != nil {
		t.Errorf("empty batch = %v, want nil", err)
	}
}

func TestCheckOfficeDoc(t *testing.T) {
	tests := []struct {
		name    string
		header  *multipart.FileHeader
		wantErr error
	}{
		{"pdf", header("paper.pdf", "application/pdf", 1000), nil},
		{"docx", header("paper.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", 1000), nil},
		{"legacy doc", header("paper.doc", "application/msword", 1000), nil},
		{"octet-stream with docx ext", header("paper.docx", "application/octet-stream", 1000), nil},
		{"at size limit", header("paper.pdf", "application/pdf", MaxDocumentSize), nil},
		{"over size limit", header("paper.pdf", "application/pdf", MaxDocumentSize + 1), ErrTooLarge},
		{"spreadsheet", header("data.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", 1000), ErrNotOfficeDoc},
		{"empty filename", header("", "application/pdf", 1000), ErrMissingFilename},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOfficeDoc(tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckOfficeDoc = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStorePath_StripsTraversal(t *testing.T) {
	s := &Store{dir: "/var/uploads"}
	got := s.Path("papers", "../../etc/passwd")
	if got != "/var/uploads/papers/passwd" {
		t.Errorf("Path = %q", got)
	}
}
