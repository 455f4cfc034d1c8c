// file: model/request.go

package model

// SignupRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token being exchanged for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest identifies the user whose refresh token is cleared.
type LogoutRequest struct {
	UserID int `json:"userId" validate:"required"`
}
