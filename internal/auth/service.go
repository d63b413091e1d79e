package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

// ErrInvalidCredentials signals a failed login attempt. It maps to a 400
// with a deliberately vague message so attackers cannot probe for
// registered emails.
var ErrInvalidCredentials = httpx.Invalid("Credenciales incorrectas.")

// Service wraps authentication business rules.
type Service struct {
	repo      Repository
	jwtSecret string
	jwtTTL    time.Duration
}

// NewService constructs a new Service.
func NewService(repo Repository, jwtSecret string, jwtTTL time.Duration) *Service {
	return &Service{repo: repo, jwtSecret: jwtSecret, jwtTTL: jwtTTL}
}

// Register creates a user account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, password, fullName, rol string) (int64, error) {
	if email == "" || password == "" || rol == "" {
		return 0, httpx.Invalid("Faltan datos.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("auth: hash password: %w", err)
	}

	id, err := s.repo.Create(ctx, User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Rol:          rol,
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Login validates credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.jwtSecret, s.jwtTTL, user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
