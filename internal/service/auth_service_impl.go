package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"learnpath/internal/domain"
	"learnpath/internal/repository"
)

type authService struct {
	users          repository.UserRepo
	jwtSecret      string
	jwtExpiration  time.Duration
	bcryptCost     int
	minPasswordLen int
}

// NewAuthService creates an AuthService. The JWT secret is mandatory; other
// parameters fall back to safe defaults when unset.
func NewAuthService(users repository.UserRepo, jwtSecret string, jwtExpiration time.Duration, bcryptCost, minPasswordLen int) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if minPasswordLen <= 0 {
		minPasswordLen = 8
	}
	return &authService{
		users:          users,
		jwtSecret:      jwtSecret,
		jwtExpiration:  jwtExpiration,
		bcryptCost:     bcryptCost,
		minPasswordLen: minPasswordLen,
	}
}

// Claims is the JWT payload minted at login and parsed by the API middleware.
type Claims struct {
	UserID string `json:"uid"`
	Login  string `json:"login"`
	jwt.RegisteredClaims
}

func (s *authService) Register(ctx context.Context, login, password, recoveryQuestion, recoveryAnswer string) (*domain.User, error) {
	login = strings.TrimSpace(login)
	if err := domain.ValidateLogin(login); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.validatePassword(password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(recoveryQuestion) == "" || strings.TrimSpace(recoveryAnswer) == "" {
		return nil, fmt.Errorf("%w: recovery question and answer are required", ErrInvalidInput)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	answerHash, err := bcrypt.GenerateFromPassword([]byte(normalizeAnswer(recoveryAnswer)), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing recovery answer: %w", err)
	}

	user := &domain.User{
		ID:                 uuid.New().String(),
		Login:              login,
		PasswordHash:       string(passwordHash),
		RecoveryQuestion:   strings.TrimSpace(recoveryQuestion),
		RecoveryAnswerHash: string(answerHash),
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrLoginTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, login, password string) (string, *domain.User, error) {
	if login == "" || password == "" {
		return "", nil, fmt.Errorf("%w: login and password are required", ErrInvalidInput)
	}

	user, err := s.users.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Unknown login and wrong password must be indistinguishable.
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	return token, user, nil
}

func (s *authService) RecoveryQuestion(ctx context.Context, login string) (string, error) {
	user, err := s.users.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrAuthenticationFailed
		}
		return "", err
	}
	return user.RecoveryQuestion, nil
}

func (s *authService) ResetPassword(ctx context.Context, login, recoveryAnswer, newPassword string) error {
	if err := s.validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.users.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAuthenticationFailed
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.RecoveryAnswerHash), []byte(normalizeAnswer(recoveryAnswer))); err != nil {
		return ErrAuthenticationFailed
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.users.UpdatePassword(ctx, user.ID, string(newHash))
}

func (s *authService) JWTSecret() string {
	return s.jwtSecret
}

func (s *authService) validatePassword(password string) error {
	if len(password) < s.minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, s.minPasswordLen)
	}
	return nil
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Login:  user.Login,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "learnpath",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// normalizeAnswer makes recovery answer comparison forgiving of case and
// surrounding whitespace.
func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
