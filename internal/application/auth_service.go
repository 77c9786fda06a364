package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ajisatria/go-blog-api/internal/domain/entity"
	repo "github.com/ajisatria/go-blog-api/internal/domain/repository"
	"github.com/ajisatria/go-blog-api/pkg/helpers"
)

// AuthService handles registration, login and token resolution.
type AuthService struct {
	Users      repo.UserRepository
	JWT        *helpers.JWTManager
	Logger     *logrus.Logger
	BcryptCost int
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, bcryptCost int) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Logger: logger, BcryptCost: bcryptCost}
}

// normalizeEmail lowercases and trims so the unique index sees one spelling
// per address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     entity.Role
}

// Register persists a new user with a hashed password and returns the new id.
// The username/email pre-check gives friendly conflicts; the unique indexes
// are the backstop when two registrations race.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !role.Valid() {
		return "", NewValidationError("role", "must be one of: user, admin")
	}
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	exists, err := s.Users.ExistsByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrUserExists
	}

	hash, err := helpers.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return "", err
	}
	u := &entity.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Role:     role,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return "", ErrUserExists
		}
		return "", err
	}
	return u.ID, nil
}

// Login verifies credentials and issues a bearer token embedding the user's
// id and role. Unknown email and wrong password fail identically; store
// failures are not credential failures and propagate as-is.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return "", ErrInvalidCredentials
	}
	token, _, err := s.JWT.Generate(u.ID, u.Role.String())
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("token generation failed")
		}
		return "", err
	}
	return token, nil
}

// ResolveToken verifies the token and loads the user it names. Any parse
// failure or a stale user id resolves to ErrUnauthorized.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return nil, ErrUnauthorized
	}
	return u, nil
}
