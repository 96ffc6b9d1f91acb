// Package auth issues access tokens for the admin/ops API.
package auth

import (
	"time"

	"storebot_backend/platform/apperr"
	"storebot_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const subjectAdmin = "admin"

// Service verifies the admin password and mints JWT access tokens.
type Service struct {
	passwordHash []byte
	secret       []byte
	tokenTTL     time.Duration
	now          func() time.Time
}

// NewService creates the auth service from config.
func NewService(cfg config.AuthConfig) *Service {
	return &Service{
		passwordHash: []byte(cfg.GetAdminPasswordHash()),
		secret:       []byte(cfg.GetJWTAccessSecret()),
		tokenTTL:     cfg.GetAccessTokenTTL(),
		now:          time.Now,
	}
}

// Login verifies the password and returns a signed access token with its
// expiry.
func (s *Service) Login(password string) (token string, expiresAt time.Time, err error) {
	if len(s.passwordHash) == 0 {
		return "", time.Time{}, apperr.Unauthorized("admin login is not configured")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, apperr.Unauthorized("invalid credentials")
	}

	now := s.now()
	expiresAt = now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":  subjectAdmin,
		"type": "access",
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, apperr.Wrap(apperr.KindInternal, "failed to sign token", err)
	}
	return signed, expiresAt, nil
}
