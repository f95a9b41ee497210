package projects

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/teamhub/internal/testutil"
)

func testHandler() *Handler {
	return NewHandler(nil, nil, nil, nil, zap.NewNop())
}

func withProjectID(req *http.Request, id string) *http.Request {
	return testutil.WithChiURLParam(req, "projectID", id)
}

func TestHandleCreate_MemberForbidden(t *testing.T) {
	h := testHandler()

	req := testutil.NewJSONRequest("POST", "/api/projects", `{}`)
	req = testutil.WithUser(req, testutil.MemberUser())
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	h := testHandler()

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"title":`},
		{"missing dates", `{"title":"Build the portal"}`},
		{"short title", `{"title":"ab","startDate":"2026-01-01T00:00:00Z","dueDate":"2026-02-01T00:00:00Z"}`},
		{"bad status", `{"title":"Build the portal","status":"Shipped","startDate":"2026-01-01T00:00:00Z","dueDate":"2026-02-01T00:00:00Z"}`},
		{"progress out of range", `{"title":"Build the portal","progress":120,"startDate":"2026-01-01T00:00:00Z","dueDate":"2026-02-01T00:00:00Z"}`},
		{"bad assignee id", `{"title":"Build the portal","assignees":[{"userId":"nope","name":"Ada","email":"a@b.com"}],"startDate":"2026-01-01T00:00:00Z","dueDate":"2026-02-01T00:00:00Z"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewJSONRequest("POST", "/api/projects", tt.body)
			req = testutil.WithUser(req, testutil.AdminUser())
			rec := httptest.NewRecorder()
			h.HandleCreate(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleDelete_NonAdminForbidden(t *testing.T) {
	h := testHandler()

	for _, role := range []string{"member", "spoc"} {
		t.Run(role, func(t *testing.T) {
			req := testutil.NewRequest("DELETE", "/api/projects/507f1f77bcf86cd799439099")
			req = testutil.WithUser(req, testutil.RoleUser(role))
			rec := httptest.NewRecorder()
			h.HandleDelete(rec, req)
			if rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", rec.Code)
			}
		})
	}
}

func TestHandleDelete_BadID(t *testing.T) {
	h := testHandler()

	req := testutil.NewRequest("DELETE", "/api/projects/not-hex")
	req = testutil.WithUser(req, testutil.AdminUser())
	req = withProjectID(req, "not-hex")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServeView_BadID(t *testing.T) {
	h := testHandler()

	req := testutil.NewRequest("GET", "/api/projects/zzz")
	req = testutil.WithUser(req, testutil.MemberUser())
	req = withProjectID(req, "zzz")
	rec := httptest.NewRecorder()
	h.ServeView(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleAddComment_Validation(t *testing.T) {
	h := testHandler()

	req := testutil.NewJSONRequest("POST", "/api/projects/507f1f77bcf86cd799439099/comments", `{"message":""}`)
	req = testutil.WithUser(req, testutil.MemberUser())
	req = withProjectID(req, "507f1f77bcf86cd799439099")
	rec := httptest.NewRecorder()
	h.HandleAddComment(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
