package service

import (
	"context"
	"errors"
	"fmt"

	"skillforge/internal/config"
	"skillforge/internal/dto"
	"skillforge/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrInvalidJWTToken is returned for any token that fails validation.
var ErrInvalidJWTToken = errors.New("invalid or expired JWT token")

// AuthService validates the bearer tokens issued by the identity provider.
type AuthService interface {
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

type authServiceImpl struct {
	cfg *config.AuthConfig
}

// NewAuthService creates a new instance of authServiceImpl.
func NewAuthService(cfg *config.AuthConfig) (AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret for auth service is not configured")
	}
	return &authServiceImpl{cfg: cfg}, nil
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired", zap.Error(err))
		} else {
			appLogger.Warn("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid {
		if claims.UserID == "" {
			claims.UserID = claims.Subject
		}
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}
