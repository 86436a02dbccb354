package auth

import (
	"errors"
	"time"

	"github.com/kiennt169/quiz-core-go/internal/models"
)

type LoginDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterDTO struct {
	Email           string `json:"email"            binding:"required,email"`
	Username        string `json:"username"         binding:"required,min=3"`
	Password        string `json:"password"         binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name"       binding:"required"`
	LastName        string `json:"last_name"        binding:"required"`
	PhoneNumber     string `json:"phone_number"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	Token        string            `json:"token"`
	RefreshToken string            `json:"refresh_token"`
	User         *models.UserModel `json:"user"`
	Roles        []string          `json:"roles"`
}

// TokenPair is the two credentials returned by every issuance: a signed
// access token and an opaque, store-backed session token.
type TokenPair struct {
	AccessToken        string
	SessionToken       string
	SessionExpiresAt   time.Time
	SessionTokenMaxAge int // seconds, for the refresh cookie
}

var (
	// ErrCredentialInvalid covers unknown email and wrong password alike.
	ErrCredentialInvalid = errors.New("invalid credentials")
	// ErrEmailTaken rejects re-registration of an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidSession covers absent, expired and already-used session
	// tokens; a used token must never be accepted twice.
	ErrInvalidSession = errors.New("invalid session")
)
