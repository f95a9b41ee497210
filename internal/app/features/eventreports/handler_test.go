package eventreports

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/teamhub/internal/testutil"
)

func testHandler() *Handler {
	return NewHandler(nil, nil, zap.NewNop())
}

func withReportID(req *http.Request, id string) *http.Request {
	return testutil.WithChiURLParam(req, "reportID", id)
}

func TestHandleCreate_Validation(t *testing.T) {
	h := testHandler()

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"title":`},
		{"missing event date", `{"title":"Annual hack day"}`},
		{"short title", `{"title":"ab","eventDate":"2026-04-01T00:00:00Z"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewJSONRequest("POST", "/api/event-reports", tt.body)
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

	req := httptest.NewRequest("POST", "/api/event-reports/507f1f77bcf86cd799439099/attachment",
		strings.NewReader("plain body"))
	req.Header.Set("Content-Type", "text/plain")
	req = testutil.WithUser(req, testutil.MemberUser())
	req = withReportID(req, "507f1f77bcf86cd799439099")
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleUpdate_BadID(t *testing.T) {
	h := testHandler()

	req := testutil.NewJSONRequest("PUT", "/api/event-reports/zzz",
		`{"title":"Annual hack day","eventDate":"2026-04-01T00:00:00Z"}`)
	req = testutil.WithUser(req, testutil.MemberUser())
	req = withReportID(req, "zzz")
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
