// internal/app/system/auth/firebase.go
package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// IDTokenInfo is the subset of an external IdP token this app cares
// about.
type IDTokenInfo struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// IDTokenVerifier verifies an external identity-provider ID token.
// Wrapping the Firebase SDK behind this interface keeps handlers and
// tests off the SDK types.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*IDTokenInfo, error)
}

// FirebaseVerifier verifies ID tokens through the Firebase Admin SDK.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier initializes the Admin SDK from a service-account
// credentials file. With an empty path the SDK falls back to
// application-default credentials.
func NewFirebaseVerifier(ctx context.Context, credentialsFile string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

// VerifyIDToken checks signature, audience, and expiry of a Firebase
// ID token and extracts the profile claims.
func (v *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*IDTokenInfo, error) {
	tok, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	info := &IDTokenInfo{UID: tok.UID}
	if v, ok := tok.Claims["email"].(string); ok {
		info.Email = v
	}
	if v, ok := tok.Claims["email_verified"].(bool); ok {
		info.EmailVerified = v
	}
	if v, ok := tok.Claims["name"].(string); ok {
		info.Name = v
	}
	if v, ok := tok.Claims["picture"].(string); ok {
		info.Picture = v
	}
	return info, nil
}
