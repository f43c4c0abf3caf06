package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/StaeyKay/blog-api/internal/core/auth"
	"github.com/StaeyKay/blog-api/internal/core/domain"
	"github.com/StaeyKay/blog-api/internal/core/ports"
)

var validate = validator.New()

// MinPasswordLength is the shortest password accepted on signup and reset.
const MinPasswordLength = 4

// AccountDeps bundles the collaborators of AccountService.
type AccountDeps struct {
	Users  ports.UserRepository
	Hasher *auth.Hasher
	Tokens *auth.TokenIssuer
	Roles  *auth.Registry
	Mailer ports.Mailer
	Log    zerolog.Logger
}

// AccountService implements registration, login and user administration.
type AccountService struct {
	users  ports.UserRepository
	hasher *auth.Hasher
	tokens *auth.TokenIssuer
	roles  *auth.Registry
	mailer ports.Mailer
	log    zerolog.Logger
}

func NewAccountService(deps AccountDeps) *AccountService {
	return &AccountService{
		users:  deps.Users,
		hasher: deps.Hasher,
		tokens: deps.Tokens,
		roles:  deps.Roles,
		mailer: deps.Mailer,
		log:    deps.Log,
	}
}

// Signup registers a new account with the default "user" role.
func (s *AccountService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.create(ctx, in, domain.RoleUser)
}

// CreateUser registers an account on behalf of an administrator and mails
// the new owner. A mail failure is reported but the account stays created.
func (s *AccountService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if !s.roles.Known(in.Role) {
		return nil, domain.ErrUnknownRole
	}
	user, err := s.create(ctx, in.SignupInput, in.Role)
	if err != nil {
		return nil, err
	}

	err = s.mailer.Send(ctx, ports.Message{
		To:      user.Email,
		Subject: "User Account Created",
		Text: fmt.Sprintf(
			"Dear %s,\n\nA user account has been created for you.\n\nUsername: %s\nEmail: %s\nRole: %s\n\nUse the password reset link on the login page to choose your password.\n\nThank you!",
			user.Name, user.Username, user.Email, user.Role,
		),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("account created but notification mail failed")
		return user, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *AccountService) create(ctx context.Context, in ports.SignupInput, role string) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := validateSignup(in); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrUserExists
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("signup: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("role", role).Msg("user registered")
	return created.Public(), nil
}

// Login verifies the password of the account matching email or username and
// issues an access token. Unknown accounts and wrong passwords are
// indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	if (email == "" && username == "") || in.Password == "" {
		return nil, domain.Validation("email or username and password are required")
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Info().Str("email", email).Str("username", username).Msg("login failed: unknown account")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.log.Info().Str("user_id", user.ID).Msg("login failed: wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &ports.LoginResult{AccessToken: token, ExpiresAt: exp, User: user.Public()}, nil
}

// Profile returns the stored account for id without its password hash.
func (s *AccountService) Profile(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// UpdateUser applies a partial update of name and role.
func (s *AccountService) UpdateUser(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, domain.Validation("name must not be empty")
		}
		update.Name = &name
	}
	if update.Role != nil && !s.roles.Known(*update.Role) {
		return nil, domain.ErrUnknownRole
	}

	user, err := s.users.UpdateByID(ctx, id, update)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Msg("user updated")
	return user.Public(), nil
}

func validateSignup(in ports.SignupInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return domain.Validation("name is required")
	case in.Username == "":
		return domain.Validation("username is required")
	case in.Email == "":
		return domain.Validation("email is required")
	case !validEmail(in.Email):
		return domain.Validation("email must be a valid email")
	case len(in.Password) < MinPasswordLength:
		return domain.Validation(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	return nil
}

func validEmail(s string) bool {
	return validate.Var(s, "email") == nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
