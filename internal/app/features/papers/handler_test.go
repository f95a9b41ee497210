package papers

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
	return NewHandler(nil, nil, zap.NewNop())
}

func withPaperID(req *http.Request, id string) *http.Request {
	return testutil.WithChiURLParam(req, "paperID", id)
}

func TestHandleCreate_Validation(t *testing.T) {
	h := testHandler()

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"title":`},
		{"missing title", `{"abstract":"short"}`},
		{"year out of range", `{"title":"On testing","year":123}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewJSONRequest("POST", "/api/papers", tt.body)
			req = testutil.WithUser(req, testutil.MemberUser())
			rec := httptest.NewRecorder()
			h.HandleCreate(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestServeList_BadYear(t *testing.T) {
	h := testHandler()

	req := testutil.NewRequest("GET", "/api/papers?year=twenty")
	req = testutil.WithUser(req, testutil.MemberUser())
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleUpload_RejectsWrongType(t *testing.T) {
	h := testHandler()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "slides.pptx")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte("not an allowed document"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/papers/507f1f77bcf86cd799439099/attachment", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = testutil.WithUser(req, testutil.MemberUser())
	req = withPaperID(req, "507f1f77bcf86cd799439099")
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
