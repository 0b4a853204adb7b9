package service

import (
	"crypto/subtle"
	"strings"

	"dictee/internal/repository"
)

// AuthService guards the bot behind the family password
type AuthService struct {
	userRepo repository.UserRepository
	password string
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, password string) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		password: password,
	}
}

// CheckPassword verifies the password typed by the user, ignoring surrounding spaces
func (s *AuthService) CheckPassword(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(input), []byte(s.password)) == 1
}

// IsAuthorized checks if user is authorized
func (s *AuthService) IsAuthorized(userID int64) (bool, error) {
	return s.userRepo.IsAuthorized(userID)
}

// AuthorizeUser authorizes a user
func (s *AuthService) AuthorizeUser(userID int64) error {
	return s.userRepo.AuthorizeUser(userID)
}

// EnsureUserExists creates user record if doesn't exist
func (s *AuthService) EnsureUserExists(userID int64) error {
	return s.userRepo.EnsureUserExists(userID)
}
