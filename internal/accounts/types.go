package accounts

import (
	"time"

	"github.com/google/uuid"
)

// SignUpRequest carries the fields needed to create a host account.
type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest carries host credentials.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Account is the stored account row, password hash included. It never
// leaves this package; callers get a models.User.
type Account struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
}
