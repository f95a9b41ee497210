package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTM() *TokenManager {
	return NewTokenManager("access-secret-0123456789", "refresh-secret-0123456789", 0, 0)
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := newTM()

	token, err := tm.Generate("507f1f77bcf86cd799439011", "a@b.com", "Ada", "admin")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := tm.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != "507f1f77bcf86cd799439011" || claims.Email != "a@b.com" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenManager_RefreshNotValidAsAccess(t *testing.T) {
	tm := newTM()

	refresh, err := tm.GenerateRefresh("id", "a@b.com", "Ada", "member")
	if err != nil {
		t.Fatalf("GenerateRefresh: %v", err)
	}
	if _, err := tm.Validate(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access-validate of refresh token = %v, want ErrInvalidToken", err)
	}
	if _, err := tm.ValidateRefresh(refresh); err != nil {
		t.Errorf("refresh-validate of refresh token = %v, want nil", err)
	}
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager("s1", "s2", time.Nanosecond, time.Nanosecond)

	token, err := tm.Generate("id", "a@b.com", "Ada", "member")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := tm.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate of expired token = %v, want ErrInvalidToken", err)
	}
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := newTM().Generate("id", "a@b.com", "Ada", "member")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	other := NewTokenManager("completely-different", "secrets-here", 0, 0)
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", ""},
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer tok", "tok"},
		{"wrong scheme", "Basic dXNlcg==", ""},
		{"no token", "Bearer", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := BearerToken(r); got != tt.want {
				t.Errorf("BearerToken = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireSignedIn(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireSignedIn(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	r := WithTestUser(httptest.NewRequest("GET", "/", nil), &AuthUser{ID: "x", Role: "member"})
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusNoContent {
		t.Errorf("signed in: status = %d, want 204", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireRole("admin", "spoc")(next)

	tests := []struct {
		name string
		user *AuthUser
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"member", &AuthUser{ID: "1", Role: "member"}, http.StatusForbidden},
		{"spoc", &AuthUser{ID: "2", Role: "spoc"}, http.StatusNoContent},
		{"admin mixed case", &AuthUser{ID: "3", Role: "Admin"}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.user != nil {
				r = WithTestUser(r, tt.user)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

type fakeVerifier struct {
	info *IDTokenInfo
	err  error
}

func (f *fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*IDTokenInfo, error) {
	return f.info, f.err
}

type fakeFetcher struct{ users map[string]*AuthUser }

func (f *fakeFetcher) FetchByEmail(ctx context.Context, email string) (*AuthUser, error) {
	return f.users[email], nil
}

func TestLoadBearerUser_AppJWT(t *testing.T) {
	tm := newTM()
	token, _ := tm.Generate("id-1", "a@b.com", "Ada", "spoc")

	var got *AuthUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	})
	mw := LoadBearerUser(tm, &fakeVerifier{err: errors.New("not a firebase token")}, &fakeFetcher{}, zap.NewNop())

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	mw(next).ServeHTTP(httptest.NewRecorder(), r)

	if got == nil || got.ID != "id-1" || got.Role != "spoc" {
		t.Errorf("context user = %+v", got)
	}
}

func TestLoadBearerUser_FirebaseTokenTriedFirst(t *testing.T) {
	tm := newTM()
	fetcher := &fakeFetcher{users: map[string]*AuthUser{
		"known@b.com": {ID: "id-9", Email: "known@b.com", Role: "member"},
	}}
	verifier := &fakeVerifier{info: &IDTokenInfo{UID: "fb-1", Email: "known@b.com", EmailVerified: true}}

	var got *AuthUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	})

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer some-firebase-token")
	LoadBearerUser(tm, verifier, fetcher, zap.NewNop())(next).ServeHTTP(httptest.NewRecorder(), r)

	if got == nil || got.ID != "id-9" {
		t.Errorf("context user = %+v, want the fetched account", got)
	}
}

func TestLoadBearerUser_UnverifiedEmailStaysAnonymous(t *testing.T) {
	tm := newTM()
	fetcher := &fakeFetcher{users: map[string]*AuthUser{
		"known@b.com": {ID: "id-9", Email: "known@b.com", Role: "member"},
	}}
	verifier := &fakeVerifier{info: &IDTokenInfo{UID: "fb-3", Email: "known@b.com", EmailVerified: false}}

	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = CurrentUser(r)
	})

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer some-firebase-token")
	LoadBearerUser(tm, verifier, fetcher, zap.NewNop())(next).ServeHTTP(httptest.NewRecorder(), r)

	if found {
		t.Error("an identity with an unverified email should not be signed in")
	}
}

func TestLoadBearerUser_UnknownFirebaseUserStaysAnonymous(t *testing.T) {
	tm := newTM()
	verifier := &fakeVerifier{info: &IDTokenInfo{UID: "fb-2", Email: "stranger@b.com", EmailVerified: true}}

	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = CurrentUser(r)
	})

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer some-firebase-token")
	LoadBearerUser(tm, verifier, &fakeFetcher{}, zap.NewNop())(next).ServeHTTP(httptest.NewRecorder(), r)

	if found {
		t.Error("unknown IdP identity should not be signed in")
	}
}
