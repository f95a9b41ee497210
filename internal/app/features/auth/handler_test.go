package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	sysauth "github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"github.com/dalemusser/teamhub/internal/testutil"
)

func testHandler() *Handler {
	tm := sysauth.NewTokenManager("test-access-secret", "test-refresh-secret", 0, 0)
	return NewHandler(nil, nil, tm, nil, nil, zap.NewNop(), false)
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, testutil.NewJSONRequest("POST", "/", body))
	return rec
}

// stubVerifier hands back a fixed identity, standing in for the
// Firebase verifier.
type stubVerifier struct {
	info *sysauth.IDTokenInfo
	err  error
}

func (s *stubVerifier) VerifyIDToken(ctx context.Context, idToken string) (*sysauth.IDTokenInfo, error) {
	return s.info, s.err
}

// stubDirectory is an in-memory role directory; lookups counts the
// GetByEmail calls.
type stubDirectory struct {
	entries map[string]*models.Role
	lookups int
}

func (s *stubDirectory) GetByEmail(ctx context.Context, email string) (*models.Role, error) {
	s.lookups++
	if entry, ok := s.entries[email]; ok {
		return entry, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (s *stubDirectory) KnownEmails(ctx context.Context) ([]string, error) {
	emails := make([]string, 0, len(s.entries))
	for e := range s.entries {
		emails = append(emails, e)
	}
	return emails, nil
}

func TestHandleRegister_Validation(t *testing.T) {
	h := testHandler()

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"email":`},
		{"missing fields", `{}`},
		{"bad email", `{"email":"not-an-email","password":"longenough","displayName":"Ada"}`},
		{"short password", `{"email":"a@b.com","password":"short","displayName":"Ada"}`},
		{"short display name", `{"email":"a@b.com","password":"longenough","displayName":"A"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.HandleRegister, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleRegister_UnregisteredEmailForbidden(t *testing.T) {
	h := testHandler()
	h.Roles = &stubDirectory{}

	rec := postJSON(t, h.HandleRegister, `{"email":"a@b.com","password":"longenough","displayName":"Ada"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestHandleLogin_Validation(t *testing.T) {
	h := testHandler()

	rec := postJSON(t, h.HandleLogin, `{"email":"a@b.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing password: status = %d, want 400", rec.Code)
	}
}

func TestHandleOAuth_NotConfigured(t *testing.T) {
	h := testHandler() // nil verifier

	rec := postJSON(t, h.HandleOAuth, `{"idToken":"some-token"}`)
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", rec.Code)
	}
}

func TestHandleOAuth_UnverifiedEmailRejected(t *testing.T) {
	h := testHandler()
	dir := &stubDirectory{entries: map[string]*models.Role{
		"a@b.com": {Email: "a@b.com", Role: "member"},
	}}
	h.Roles = dir
	h.Verifier = &stubVerifier{info: &sysauth.IDTokenInfo{
		UID:           "fb-1",
		Email:         "a@b.com",
		EmailVerified: false,
		Name:          "Ada",
	}}

	rec := postJSON(t, h.HandleOAuth, `{"idToken":"some-token"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if dir.lookups != 0 {
		t.Errorf("directory lookups = %d, want none before the email is verified", dir.lookups)
	}
}

func TestHandleOAuth_UnregisteredEmailForbidden(t *testing.T) {
	h := testHandler()
	h.Roles = &stubDirectory{}
	h.Verifier = &stubVerifier{info: &sysauth.IDTokenInfo{
		UID:           "fb-2",
		Email:         "stranger@b.com",
		EmailVerified: true,
		Name:          "Stranger",
	}}

	rec := postJSON(t, h.HandleOAuth, `{"idToken":"some-token"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestHandleRefresh_InvalidToken(t *testing.T) {
	h := testHandler()

	rec := postJSON(t, h.HandleRefresh, `{"refreshToken":"garbage"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandleRefresh_AccessTokenRejected(t *testing.T) {
	h := testHandler()

	// An access token must not pass the refresh endpoint even though it
	// was signed by the same manager.
	access, err := h.Tokens.Generate("507f1f77bcf86cd799439011", "a@b.com", "Ada", "member")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	rec := postJSON(t, h.HandleRefresh, `{"refreshToken":"`+access+`"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestServeProfile_RequiresUser(t *testing.T) {
	h := testHandler()

	rec := httptest.NewRecorder()
	h.ServeProfile(rec, testutil.NewRequest("GET", "/api/auth/profile"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandleUpdateProfile_Validation(t *testing.T) {
	h := testHandler()

	req := testutil.NewJSONRequest("PUT", "/api/auth/profile", `{"displayName":"A"}`)
	req = testutil.WithUser(req, testutil.MemberUser())
	rec := httptest.NewRecorder()
	h.HandleUpdateProfile(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
