package blogs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/teamhub/internal/testutil"
)

func testHandler() *Handler {
	return NewHandler(nil, nil, zap.NewNop())
}

func withBlogID(req *http.Request, id string) *http.Request {
	return testutil.WithChiURLParam(req, "blogID", id)
}

func TestHandleCreate_Validation(t *testing.T) {
	h := testHandler()

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"title":`},
		{"missing content", `{"title":"A fine post"}`},
		{"short title", `{"title":"ab","content":"hello"}`},
		{"bad cover url", `{"title":"A fine post","content":"hello","coverURL":"not a url"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewJSONRequest("POST", "/api/blogs", tt.body)
			req = testutil.WithUser(req, testutil.MemberUser())
			rec := httptest.NewRecorder()
			h.HandleCreate(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestServeView_BadID(t *testing.T) {
	h := testHandler()

	req := testutil.NewRequest("GET", "/api/blogs/zzz")
	req = testutil.WithUser(req, testutil.MemberUser())
	req = withBlogID(req, "zzz")
	rec := httptest.NewRecorder()
	h.ServeView(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleDelete_BadID(t *testing.T) {
	h := testHandler()

	req := testutil.NewRequest("DELETE", "/api/blogs/zzz")
	req = testutil.WithUser(req, testutil.MemberUser())
	req = withBlogID(req, "zzz")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
