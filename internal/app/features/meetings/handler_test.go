package meetings

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/teamhub/internal/testutil"
)

func testHandler() *Handler {
	return NewHandler(nil, nil, nil, zap.NewNop())
}

func withMeetingID(req *http.Request, id string) *http.Request {
	return testutil.WithChiURLParam(req, "meetingID", id)
}

func TestHandleCreate_Validation(t *testing.T) {
	h := testHandler()

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"title":`},
		{"missing date", `{"title":"Sprint review"}`},
		{"short title", `{"title":"ab","date":"2026-03-01T10:00:00Z"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewJSONRequest("POST", "/api/meetings", tt.body)
			req = testutil.WithUser(req, testutil.MemberUser())
			rec := httptest.NewRecorder()
			h.HandleCreate(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleUpload_NotMultipart(t *testing.T) {
	h := testHandler()

	req := testutil.NewJSONRequest("POST", "/api/meetings/507f1f77bcf86cd799439099/attachments", `{"files":[]}`)
	req = testutil.WithUser(req, testutil.MemberUser())
	req = withMeetingID(req, "507f1f77bcf86cd799439099")
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleUpload_RejectsNonPDF(t *testing.T) {
	h := testHandler()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("files", "notes.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte("plain text"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/meetings/507f1f77bcf86cd799439099/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = testutil.WithUser(req, testutil.MemberUser())
	req = withMeetingID(req, "507f1f77bcf86cd799439099")
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleUpload_NoFiles(t *testing.T) {
	h := testHandler()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("note", "no files here")
	mw.Close()

	req := httptest.NewRequest("POST", "/api/meetings/507f1f77bcf86cd799439099/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = testutil.WithUser(req, testutil.MemberUser())
	req = withMeetingID(req, "507f1f77bcf86cd799439099")
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
