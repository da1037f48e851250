package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"microblog/internal/models"
	"microblog/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultTokenTTL is the validity window of a freshly minted API token.
	DefaultTokenTTL = time.Hour
	// DefaultTokenReuseThreshold is the minimum remaining validity for an
	// existing token to be handed out again instead of minting a new one.
	DefaultTokenReuseThreshold = time.Minute
)

// AuthService is the credential store: password hashing and verification,
// opaque bearer-token issuance and revocation.
type AuthService struct {
	userRepo       repositories.UserRepository
	tokenTTL       time.Duration
	reuseThreshold time.Duration
}

// NewAuthService creates a new AuthService. Zero durations fall back to the
// defaults.
func NewAuthService(userRepo repositories.UserRepository, tokenTTL, reuseThreshold time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	if reuseThreshold <= 0 {
		reuseThreshold = DefaultTokenReuseThreshold
	}
	return &AuthService{
		userRepo:       userRepo,
		tokenTTL:       tokenTTL,
		reuseThreshold: reuseThreshold,
	}
}

// HashPassword hashes a plaintext password with bcrypt.
func (s *AuthService) HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func (s *AuthService) CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// IssueToken returns the user's API token. While the current token has more
// than the reuse threshold of validity left the same token is returned, which
// makes issuance idempotent; otherwise a new random opaque token is minted
// and persisted with a fresh expiry.
func (s *AuthService) IssueToken(user *models.User) (string, time.Time, error) {
	now := time.Now().UTC()
	if user.Token != nil && user.TokenExpiration.After(now.Add(s.reuseThreshold)) {
		return *user.Token, user.TokenExpiration, nil
	}

	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	user.Token = &token
	user.TokenExpiration = now.Add(s.tokenTTL)
	if err := s.userRepo.Update(user); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to persist token: %w", err)
	}
	return token, user.TokenExpiration, nil
}

// ResolveToken looks up the user owning the token. It returns (nil, nil) for
// an unknown or expired token; the caller maps that to an authentication
// failure.
func (s *AuthService) ResolveToken(token string) (*models.User, error) {
	user, err := s.userRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.TokenExpiration.After(time.Now().UTC()) {
		return nil, nil
	}
	return user, nil
}

// RevokeToken expires the user's current token immediately. Revoking a user
// without a token is a no-op.
func (s *AuthService) RevokeToken(user *models.User) error {
	if user.Token == nil {
		return nil
	}
	user.TokenExpiration = time.Now().UTC().Add(-time.Second)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Authenticate verifies basic-auth credentials. It returns (nil, nil) when
// the username is unknown or the password does not match, without revealing
// which; the caller maps that to an authentication failure.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.CheckPassword(password, user.PasswordHash) {
		return nil, nil
	}
	return user, nil
}
