package audittrail

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/teamhub/internal/testutil"
)

func TestServeList_BadFilters(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())

	tests := []struct {
		name  string
		query string
	}{
		{"bad user id", "?userId=nope"},
		{"bad from", "?from=yesterday"},
		{"bad to", "?to=2026-13-99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequest("GET", "/api/audit"+tt.query)
			req = testutil.WithUser(req, testutil.AdminUser())
			rec := httptest.NewRecorder()
			h.ServeList(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
