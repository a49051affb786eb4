// Package auth guards the API for the single shop operator: a bcrypt-checked
// login that issues bearer tokens kept in Redis.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials indicates login failure.
var ErrInvalidCredentials = errors.New("invalid credentials")

const tokenKeyPrefix = "auth:token:"

// Service validates operator credentials and manages session tokens.
type Service struct {
	client       *redis.Client
	email        string
	passwordHash string
	ttl          time.Duration
}

// NewService constructs a Service against the configured operator identity.
func NewService(client *redis.Client, email, passwordHash string, ttl time.Duration) *Service {
	return &Service{client: client, email: email, passwordHash: passwordHash, ttl: ttl}
}

// Login checks credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if email != s.email {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	token := uuid.NewString()
	if err := s.client.Set(ctx, tokenKeyPrefix+token, email, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store token: %w", err)
	}
	return token, nil
}

// Validate reports whether the token names a live session and refreshes its
// TTL.
func (s *Service) Validate(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	ok, err := s.client.Expire(ctx, tokenKeyPrefix+token, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("auth: validate token: %w", err)
	}
	return ok, nil
}

// Logout revokes the token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, tokenKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}
