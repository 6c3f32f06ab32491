// Package auth issues and verifies admin sessions: a signed, expiring JWT
// paired with a Redis session record. The record makes logout immediate and
// keeps token state out of process memory, so restarts don't strand or
// accumulate anything.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/cupify/storefront/internal/redisx"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type Service struct {
	Redis  *redis.Client
	Secret []byte
	TTL    time.Duration

	Username     string
	Password     string // plaintext fallback for local dev
	PasswordHash string // bcrypt; preferred when set
}

func (s *Service) checkCredentials(username, password string) error {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.Username)) != 1 {
		return ErrInvalidCredentials
	}
	if s.PasswordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)) != nil {
			return ErrInvalidCredentials
		}
		return nil
	}
	if s.Password == "" || subtle.ConstantTimeCompare([]byte(password), []byte(s.Password)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

// Login validates credentials and returns a bearer token. The session is
// recorded in Redis under the token id with the same TTL as the token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if err := s.checkCredentials(username, password); err != nil {
		return "", err
	}
	jti := uuid.NewString()
	token, err := s.issueToken(username, jti)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf(redisx.KeySession, jti)
	if err := s.Redis.Set(ctx, key, username, s.TTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Verify accepts a token only when the signature checks out, the token is
// unexpired, and its session is still live.
func (s *Service) Verify(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(redisx.KeySession, claims.ID)
	ok, err := redisx.Exists(ctx, s.Redis, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidToken
	}
	return nil
}

// Logout revokes the session. Best-effort: an unparsable token has nothing
// to revoke.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil
	}
	key := fmt.Sprintf(redisx.KeySession, claims.ID)
	return s.Redis.Del(ctx, key).Err()
}

func (s *Service) issueToken(username, jti string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

func (s *Service) parseToken(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
