package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gstledger/internal/config"
	"gstledger/internal/domain"
	"gstledger/internal/port"
)

// Claims represents the JWT claims for the company session.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Token holds a signed access token and its expiry.
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// LoginInput is the DTO for login requests.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// AuthService defines the authentication contract. The deployment serves a
// single company, so login checks against the company profile directly.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*Token, error)
	Refresh(ctx context.Context, tokenString string) (*Token, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	companyRepo port.CompanyRepository
	cfg         config.JWTConfig
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(companyRepo port.CompanyRepository, cfg config.JWTConfig) AuthService {
	return &authService{companyRepo: companyRepo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*Token, error) {
	profile, err := s.companyRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth.Login: %w", err)
	}

	if !strings.EqualFold(profile.Email, input.Email) {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.generateToken(profile)
}

// Refresh exchanges a still-valid token for a fresh one with a new expiry.
// There is no separate refresh token; the session simply cannot outlive the
// access expiry without activity.
func (s *authService) Refresh(ctx context.Context, tokenString string) (*Token, error) {
	if _, err := s.ValidateToken(tokenString); err != nil {
		return nil, domain.ErrUnauthorized
	}
	profile, err := s.companyRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth.Refresh: %w", err)
	}
	return s.generateToken(profile)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func (s *authService) generateToken(profile *domain.CompanyProfile) (*Token, error) {
	now := time.Now()
	expiry := now.Add(s.cfg.AccessTokenExpiry)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.New().String(),
		},
		Email: profile.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	return &Token{AccessToken: signed, ExpiresAt: expiry}, nil
}
