package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeRepo struct {
	byUsername map[string]*Account
	lastLogin  map[uuid.UUID]time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byUsername: make(map[string]*Account),
		lastLogin:  make(map[uuid.UUID]time.Time),
	}
}

func (f *fakeRepo) CreateAccount(_ context.Context, username, email, passwordHash string) (*Account, error) {
	a := &Account{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	f.byUsername[username] = a
	return a, nil
}

func (f *fakeRepo) GetAccountByUsername(_ context.Context, username string) (*Account, error) {
	a, ok := f.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (f *fakeRepo) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	f.lastLogin[id] = time.Now()
	return nil
}

func TestSignUpAndSignIn(t *testing.T) {
	repo := newFakeRepo()
	app := NewApp(repo)
	ctx := context.Background()

	user, err := app.SignUp(ctx, SignUpRequest{
		Username: "host",
		Email:    "host@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if user.Username != "host" {
		t.Errorf("Username = %s, want host", user.Username)
	}

	// The stored hash is not the plaintext.
	if repo.byUsername["host"].PasswordHash == "correct horse" {
		t.Fatal("password stored in plaintext")
	}

	signedIn, err := app.SignIn(ctx, SignInRequest{Username: "host", Password: "correct horse"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if signedIn.ID != user.ID {
		t.Errorf("SignIn returned a different account")
	}
	if _, ok := repo.lastLogin[user.ID]; !ok {
		t.Error("last login not stamped")
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	repo := newFakeRepo()
	app := NewApp(repo)
	ctx := context.Background()

	app.SignUp(ctx, SignUpRequest{Username: "host", Email: "h@x.com", Password: "correct horse"})

	tests := []struct {
		name string
		req  SignInRequest
	}{
		{"wrong password", SignInRequest{Username: "host", Password: "wrong"}},
		{"unknown username", SignInRequest{Username: "ghost", Password: "correct horse"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := app.SignIn(ctx, tt.req); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("SignIn err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestSignInRejectsInactiveAccount(t *testing.T) {
	repo := newFakeRepo()
	app := NewApp(repo)
	ctx := context.Background()

	app.SignUp(ctx, SignUpRequest{Username: "host", Email: "h@x.com", Password: "correct horse"})
	repo.byUsername["host"].IsActive = false

	if _, err := app.SignIn(ctx, SignInRequest{Username: "host", Password: "correct horse"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("SignIn on inactive account err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	app := NewApp(newFakeRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		req  SignUpRequest
	}{
		{"empty username", SignUpRequest{Email: "h@x.com", Password: "long enough"}},
		{"bad email", SignUpRequest{Username: "host", Email: "nope", Password: "long enough"}},
		{"short password", SignUpRequest{Username: "host", Email: "h@x.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := app.SignUp(ctx, tt.req); err == nil {
				t.Error("SignUp should have failed validation")
			}
		})
	}
}

func TestSignUpRejectsDuplicateUsername(t *testing.T) {
	app := NewApp(newFakeRepo())
	ctx := context.Background()

	req := SignUpRequest{Username: "host", Email: "h@x.com", Password: "long enough"}
	if _, err := app.SignUp(ctx, req); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := app.SignUp(ctx, req); err == nil {
		t.Error("duplicate username should fail")
	}
}
