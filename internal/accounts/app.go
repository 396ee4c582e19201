// Package accounts handles host sign-up and sign-in. Passwords are stored
// as bcrypt hashes only; the plaintext never touches a log line or a row.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/showrunr/feud/internal/models"
)

// ErrInvalidCredentials covers both a missing account and a wrong password
// so a caller cannot probe which usernames exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AccountsRepository defines what the app layer needs from the repository.
type AccountsRepository interface {
	CreateAccount(ctx context.Context, username, email, passwordHash string) (*Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*Account, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// App handles account business logic.
type App struct {
	repo AccountsRepository
}

// NewApp creates a new accounts App.
func NewApp(repo AccountsRepository) *App {
	return &App{repo: repo}
}

// SignUp validates the request, hashes the password, and creates the account.
func (a *App) SignUp(ctx context.Context, req SignUpRequest) (*models.User, error) {
	if err := validateSignUp(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := a.repo.GetAccountByUsername(ctx, req.Username)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("account with username %s already exists", req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := a.repo.CreateAccount(ctx, req.Username, req.Email, string(hash))
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	log.Info().Str("username", account.Username).Msg("account created")
	return accountToUser(account), nil
}

// SignIn verifies credentials and stamps the last login time.
func (a *App) SignIn(ctx context.Context, req SignInRequest) (*models.User, error) {
	account, err := a.repo.GetAccountByUsername(ctx, req.Username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if !account.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if err := a.repo.UpdateLastLogin(ctx, account.ID); err != nil {
		// The sign-in itself succeeded; the stamp is best effort.
		log.Warn().Err(err).Str("username", account.Username).Msg("last login stamp failed")
	}

	log.Info().Str("username", account.Username).Msg("host signed in")
	return accountToUser(account), nil
}

func validateSignUp(req SignUpRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if req.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(req.Email, "@") || !strings.Contains(req.Email, ".") {
		return fmt.Errorf("email format is invalid")
	}
	if len(req.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

func accountToUser(a *Account) *models.User {
	return &models.User{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}
