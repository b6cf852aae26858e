package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
	"github.com/tempoworks/timesheet-system/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, logger: logger, now: time.Now}
}

// Register creates a self-service account. Registration always yields the
// USER role; administrators are created with BootstrapAdmin.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return nil, domain.Invalidf("username and password are required")
	}

	user, err := s.createAccount(ctx, input, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// BootstrapAdmin creates an ADMIN account. It is only reachable from the CLI.
func (s *AuthService) BootstrapAdmin(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	user, err := s.createAccount(ctx, input, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("admin account created")
	return user, nil
}

func (s *AuthService) createAccount(ctx context.Context, input ports.RegisterInput, role domain.Role) (*domain.User, error) {
	accounts := accountCreator{users: s.users, hasher: s.hasher, now: s.now}
	if err := accounts.checkAvailable(ctx, input.Username, input.Email); err != nil {
		return nil, err
	}
	return accounts.create(ctx, input.Username, input.Email, input.Password, role)
}

// Login verifies the credentials and issues a signed token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.logger.Debug().Str("username", username).Msg("password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	return &ports.LoginResult{
		Token:            token,
		ExpiresAt:        expiresAt,
		UserID:           user.ID,
		Username:         user.Username,
		Role:             user.Role,
		AssignedProjects: user.AssignedProjects,
	}, nil
}
