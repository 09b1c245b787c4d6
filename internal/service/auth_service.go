package service

import (
	"context"
	"strings"
	"time"

	"toolnest/internal/cache"
	"toolnest/internal/middleware"
	"toolnest/internal/models"
	"toolnest/internal/observability"
	"toolnest/internal/repository"
	"toolnest/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo  repository.UserRepository
	tokens    *middleware.TokenManager
	validator *validation.Validator
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

func NewAuthService(userRepo repository.UserRepository, tokens *middleware.TokenManager) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		validator: validation.New(),
	}
}

func recordAuth(action, outcome string) {
	observability.AuthAttempts.WithLabelValues(action, outcome).Inc()
}

// Register creates an account. Emails are stored lowercased.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = validation.NormalizeEmail(in.Email)

	if err := s.validator.Validate(in); err != nil {
		recordAuth("register", "rejected")
		return nil, err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		recordAuth("register", "rejected")
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		recordAuth("register", "rejected")
		return nil, models.NewValidationError("user already exists")
	case err != nil && !models.IsCode(err, models.CodeNotFound):
		recordAuth("register", "error")
		return nil, serviceError(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		recordAuth("register", "error")
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if models.IsCode(err, models.CodeConflict) {
			recordAuth("register", "rejected")
			return nil, models.NewValidationError("user already exists")
		}
		recordAuth("register", "error")
		return nil, serviceError(err)
	}

	recordAuth("register", "success")
	return user, nil
}

// Login checks credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := validation.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		recordAuth("login", "rejected")
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			recordAuth("login", "rejected")
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		recordAuth("login", "error")
		return nil, serviceError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		recordAuth("login", "rejected")
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	token, claims, err := s.tokens.Issue(user.ID, user.Name, user.Email)
	if err != nil {
		recordAuth("login", "error")
		return nil, models.NewInternalError(err)
	}

	recordAuth("login", "success")
	return &LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, nil
}

// Logout revokes the token until it would have expired. Without Redis it does nothing.
func (s *AuthService) Logout(ctx context.Context, claims *middleware.TokenClaims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := cache.Revoke(ctx, claims.ID, ttl); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Authenticate resolves a raw token to its claims and user. Revoked tokens and
// deleted users are rejected.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*middleware.TokenClaims, *models.User, error) {
	if raw == "" {
		return nil, nil, models.NewUnauthorizedError("Missing authorization token")
	}
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	if cache.IsRevoked(ctx, claims.ID) {
		return nil, nil, models.NewUnauthorizedError("Token has been revoked")
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, nil, models.NewUnauthorizedError("User not found")
		}
		return nil, nil, serviceError(err)
	}
	return claims, user, nil
}
