package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type JwtCustomClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService issues and tracks the admin back-office session token.
type AuthService struct {
	adminEmail    string
	adminPassword string
	jwtSecret     []byte
	rdb           *redis.Client
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(adminEmail, adminPassword string, jwtSecret []byte, rdb *redis.Client) *AuthService {
	return &AuthService{
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
		jwtSecret:     jwtSecret,
		rdb:           rdb,
	}
}

// Login checks the admin credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	if !emailOK || !passOK {
		return "", ErrInvalidCredentials
	}

	claims := &JwtCustomClaims{
		Name:  "admin",
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := tkn.SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, sessionKey(email), t, time.Hour*24).Err(); err != nil {
			return "", err
		}
	}

	return t, nil
}

// ValidateSession checks that a token is the one currently stored for the
// admin, so logging out (deleting the key) revokes it before expiry.
func (s *AuthService) ValidateSession(ctx context.Context, email, token string) error {
	if s.rdb == nil {
		return nil
	}

	stored, err := s.rdb.Get(ctx, sessionKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("session not found")
		}
		return err
	}
	if stored != token {
		return ErrInvalidCredentials
	}
	return nil
}

// Logout revokes the stored session.
func (s *AuthService) Logout(ctx context.Context, email string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(email)).Err()
}

func sessionKey(email string) string {
	return fmt.Sprintf("admin-session:%s", email)
}
