// internal/app/features/auth/types.go
package auth

import "github.com/dalemusser/teamhub/internal/domain/models"

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"displayName" validate:"required,min=2,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type oauthRequest struct {
	// A Firebase ID token obtained by the client SDK. The server
	// verifies it; none of the profile fields are trusted from the
	// request body.
	IDToken string `json:"idToken" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type updateProfileRequest struct {
	DisplayName string `json:"displayName" validate:"required,min=2,max=100"`
	PhotoURL    string `json:"photoURL" validate:"omitempty,url"`
}

// userPayload is the user shape returned by auth endpoints. The model's
// own JSON tags already hide the password hash; this trims the rest to
// what clients need.
type userPayload struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
	Role        string `json:"role"`
}

type tokenPayload struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	User         userPayload `json:"user"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:          u.ID.Hex(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Role:        u.Role,
	}
}
