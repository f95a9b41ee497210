// internal/app/features/auth/handler.go

// Package auth implements the authentication endpoints: password
// registration and login, OAuth sign-in via a verified IdP token,
// refresh-token exchange, and the signed-in profile.
//
// Every sign-in path runs through the role directory: an email without
// a directory entry is rejected with 403 no matter what credentials it
// presents or whether a user record already exists.
package auth

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userstore "github.com/dalemusser/teamhub/internal/app/store/users"
	sysauth "github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/dalemusser/teamhub/internal/app/system/auditlog"
	"github.com/dalemusser/teamhub/internal/app/system/normalize"
	"github.com/dalemusser/teamhub/internal/app/system/respond"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
)

// RoleDirectory is the slice of the roles store the auth endpoints
// need: the allowlist lookup plus the diagnostic email listing.
type RoleDirectory interface {
	GetByEmail(ctx context.Context, email string) (*models.Role, error)
	KnownEmails(ctx context.Context) ([]string, error)
}

// Handler owns the authentication endpoints.
type Handler struct {
	Users    *userstore.Store
	Roles    RoleDirectory
	Tokens   *sysauth.TokenManager
	Verifier sysauth.IDTokenVerifier
	Audit    *auditlog.Logger
	Log      *zap.Logger

	// DebugAuth attaches the directory's known emails to 403 responses.
	// Diagnostic only; must stay off in production.
	DebugAuth bool
}

// NewHandler creates an auth Handler.
func NewHandler(users *userstore.Store, roles RoleDirectory, tokens *sysauth.TokenManager, verifier sysauth.IDTokenVerifier, audit *auditlog.Logger, logger *zap.Logger, debugAuth bool) *Handler {
	return &Handler{
		Users:     users,
		Roles:     roles,
		Tokens:    tokens,
		Verifier:  verifier,
		Audit:     audit,
		Log:       logger,
		DebugAuth: debugAuth,
	}
}

// allowlistCheck looks up the role directory entry for an email. When
// the email is absent it writes the 403 itself and returns nil.
func (h *Handler) allowlistCheck(ctx context.Context, w http.ResponseWriter, r *http.Request, email string) *models.Role {
	role, err := h.Roles.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.Audit.LoginFailedNotAllowed(ctx, r, email)
		if h.DebugAuth {
			known, kerr := h.Roles.KnownEmails(ctx)
			if kerr != nil {
				h.Log.Warn("auth: known-emails listing failed", zap.Error(kerr))
			}
			respond.ErrorWithDetail(w, http.StatusForbidden, "access denied: email not registered",
				map[string]any{"knownEmails": known})
			return nil
		}
		respond.Forbidden(w, "access denied: email not registered")
		return nil
	}
	if err != nil {
		h.Log.Error("auth: role lookup failed", zap.Error(err))
		respond.InternalError(w)
		return nil
	}
	return role
}

// issueTokens signs the access/refresh pair for a user.
func (h *Handler) issueTokens(w http.ResponseWriter, u *models.User) (tokenPayload, bool) {
	access, err := h.Tokens.Generate(u.ID.Hex(), u.Email, u.DisplayName, u.Role)
	if err != nil {
		h.Log.Error("auth: access token signing failed", zap.Error(err))
		respond.InternalError(w)
		return tokenPayload{}, false
	}
	refresh, err := h.Tokens.GenerateRefresh(u.ID.Hex(), u.Email, u.DisplayName, u.Role)
	if err != nil {
		h.Log.Error("auth: refresh token signing failed", zap.Error(err))
		respond.InternalError(w)
		return tokenPayload{}, false
	}
	return tokenPayload{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         toUserPayload(u),
	}, true
}

// HandleRegister handles POST /api/auth/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	email := normalize.Email(req.Email)
	role := h.allowlistCheck(ctx, w, r, email)
	if role == nil {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("auth: bcrypt failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	u, err := h.Users.Create(ctx, models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Role:         role.Role,
		AuthProvider: models.ProviderPassword,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		respond.Conflict(w, "an account with this email already exists")
		return
	}
	if err != nil {
		h.Log.Error("auth: user create failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	h.Audit.Registered(ctx, r, u.ID, u.Email, u.Role)

	payload, ok := h.issueTokens(w, &u)
	if !ok {
		return
	}
	respond.Created(w, "account created", payload)
}

// HandleLogin handles POST /api/auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	email := normalize.Email(req.Email)
	u, err := h.Users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.Audit.LoginFailedUserNotFound(ctx, r, email)
		respond.Unauthorized(w, "invalid email or password")
		return
	}
	if err != nil {
		h.Log.Error("auth: user lookup failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	if u.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		h.Audit.LoginFailedWrongPassword(ctx, r, u.ID, email)
		respond.Unauthorized(w, "invalid email or password")
		return
	}

	// The directory stays authoritative after account creation: a
	// revoked email cannot log in even with a valid password.
	role := h.allowlistCheck(ctx, w, r, email)
	if role == nil {
		return
	}

	if err := h.Users.SetLastLogin(ctx, u.ID, role.Role); err != nil {
		h.Log.Error("auth: last-login stamp failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	u.Role = role.Role

	h.Audit.LoginSuccess(ctx, r, u.ID, u.Email)

	payload, ok := h.issueTokens(w, u)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, payload)
}

// HandleOAuth handles POST /api/auth/oauth: sign-in with a verified
// external-IdP token. Creates the user record on first sign-in.
func (h *Handler) HandleOAuth(w http.ResponseWriter, r *http.Request) {
	var req oauthRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if h.Verifier == nil {
		respond.Error(w, http.StatusNotImplemented, "OAuth sign-in is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	info, err := h.Verifier.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		respond.Unauthorized(w, "invalid identity token")
		return
	}
	if info.Email == "" {
		respond.BadRequest(w, "identity token carries no email")
		return
	}
	if !info.EmailVerified {
		respond.Unauthorized(w, "email address is not verified")
		return
	}

	email := normalize.Email(info.Email)
	role := h.allowlistCheck(ctx, w, r, email)
	if role == nil {
		return
	}

	u, err := h.Users.UpsertOnLogin(ctx, email, models.ProviderFirebase, userstore.LoginRefresh{
		UID:         info.UID,
		DisplayName: info.Name,
		PhotoURL:    info.Picture,
		Role:        role.Role,
	})
	if err != nil {
		h.Log.Error("auth: login upsert failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	h.Audit.OAuthSignIn(ctx, r, u.ID, u.Email, models.ProviderFirebase)

	payload, ok := h.issueTokens(w, u)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, payload)
}

// HandleRefresh handles POST /api/auth/refresh: exchanges a valid
// refresh token for a new access/refresh pair. The user record is
// reloaded so a deactivation or role change takes effect here too.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	claims, err := h.Tokens.ValidateRefresh(req.RefreshToken)
	if err != nil {
		respond.Unauthorized(w, "invalid refresh token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	uid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respond.Unauthorized(w, "invalid refresh token")
		return
	}
	u, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.Unauthorized(w, "account no longer exists")
		return
	}
	if err != nil {
		h.Log.Error("auth: user reload failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	if !u.IsActive {
		respond.Forbidden(w, "account is deactivated")
		return
	}

	h.Audit.TokenRefreshed(ctx, r, u.ID)

	payload, ok := h.issueTokens(w, u)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, payload)
}

// ServeProfile handles GET /api/auth/profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := sysauth.CurrentUser(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	uid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		respond.Unauthorized(w, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "account not found")
		return
	}
	if err != nil {
		h.Log.Error("auth: profile load failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.JSON(w, http.StatusOK, toUserPayload(u))
}

// HandleUpdateProfile handles PUT /api/auth/profile.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := sysauth.CurrentUser(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	uid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		respond.Unauthorized(w, "authentication required")
		return
	}

	var req updateProfileRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, uid, userstore.ProfileUpdate{
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	}); err != nil {
		h.Log.Error("auth: profile update failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.Log.Error("auth: profile reload failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.JSON(w, http.StatusOK, toUserPayload(u))
}
