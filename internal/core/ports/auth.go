package ports

import (
	"context"
	"time"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
)

// PasswordHasher hashes and verifies user credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs identity tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *domain.User) (token string, expiresAt time.Time, err error)
}

// Principal is the authenticated caller resolved from a token.
type Principal struct {
	UserID   string
	Username string
	Role     domain.Role
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p Principal) IsAdmin() bool { return p.Role == domain.RoleAdmin }

// TokenVerifier resolves a signed token back into a principal.
type TokenVerifier interface {
	Verify(token string) (*Principal, error)
}

// RegisterInput carries self-registration data.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token            string
	ExpiresAt        time.Time
	UserID           string
	Username         string
	Role             domain.Role
	AssignedProjects []string
}

// AuthService authenticates users and registers new accounts.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}
