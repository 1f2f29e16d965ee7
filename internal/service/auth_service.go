// Package service holds the business rules that sit between HTTP handlers and repositories.
package service

import (
	"context"
	"errors"

	"blogapi/internal/auth"
	"blogapi/internal/models"
	"blogapi/internal/observability"
	"blogapi/internal/repository"
	"blogapi/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs and revokes session tokens.
type TokenIssuer interface {
	Issue(userID uint) (string, error)
	Revoke(ctx context.Context, claims *auth.Claims) error
}

type AuthService struct {
	users      repository.UserRepository
	tokens     TokenIssuer
	bcryptCost int
	// dummyHash keeps the cost of a failed login the same whether or not the nickname exists.
	dummyHash []byte
}

type SignupInput struct {
	Email         string
	Nickname      string
	Password      string
	PasswordCheck string
}

type LoginInput struct {
	Nickname string
	Password string
}

// NewAuthService creates an AuthService. A non-positive bcryptCost selects bcrypt.DefaultCost.
func NewAuthService(users repository.UserRepository, tokens TokenIssuer, bcryptCost int) *AuthService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("blogapi-dummy-password"), bcryptCost)
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost, dummyHash: dummy}
}

// Signup validates the fields, rejects taken nicknames and emails, and stores a bcrypt hash.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	ctx, span := observability.StartServiceSpan(ctx, "AuthService", "Signup")
	defer span.End()

	user, err := s.signup(ctx, in)
	observability.RecordError(span, err)
	observability.AuthEvents.WithLabelValues("signup", result(err)).Inc()
	return user, err
}

func (s *AuthService) signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := validation.ValidateSignup(in.Email, in.Nickname, in.Password, in.PasswordCheck); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.users.GetByNickname(ctx, in.Nickname)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError(validation.ErrDuplicateNickname.Error())
	}

	existing, err = s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError(validation.ErrDuplicateEmail.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    in.Email,
		Nickname: in.Nickname,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, *models.User, error) {
	ctx, span := observability.StartServiceSpan(ctx, "AuthService", "Login")
	defer span.End()

	token, user, err := s.login(ctx, in)
	observability.RecordError(span, err)
	observability.AuthEvents.WithLabelValues("login", result(err)).Inc()
	return token, user, err
}

func (s *AuthService) login(ctx context.Context, in LoginInput) (string, *models.User, error) {
	invalid := models.NewValidationError(validation.ErrInvalidCredentials.Error())

	user, err := s.users.GetByNickname(ctx, in.Nickname)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(in.Password))
		return "", nil, invalid
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", nil, invalid
		}
		return "", nil, models.NewInternalError(err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, user, nil
}

// Logout revokes the token described by claims.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		observability.AuthEvents.WithLabelValues("logout", "error").Inc()
		return models.NewInternalError(err)
	}
	observability.AuthEvents.WithLabelValues("logout", "success").Inc()
	return nil
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
