// Package account persists storefront credentials under the users storage
// key. Passwords are stored as bcrypt hashes, never as plaintext.
package account

import (
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/validator"
	"github.com/utafrali/storefront/storage"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// User is a stored credential record. The password field holds a bcrypt hash.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput holds the parameters for creating a user.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Store owns the in-memory user collection.
type Store struct {
	mu      sync.RWMutex
	adapter storage.Adapter
	logger  *slog.Logger
	users   []User
}

// NewStore creates a credential store and eagerly loads persisted users.
func NewStore(adapter storage.Adapter, logger *slog.Logger) (*Store, error) {
	users, err := storage.ReadJSON(adapter, storage.KeyUsers, []User{})
	if err != nil {
		return nil, apperrors.Wrap(err, "load users")
	}
	return &Store{adapter: adapter, logger: logger, users: users}, nil
}

// Register validates the input, hashes the password and persists the user.
// Emails are unique, compared case-insensitively.
func (s *Store) Register(input RegisterInput) (User, error) {
	if err := validator.Validate(input); err != nil {
		return User{}, apperrors.Validation(err)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return User{}, apperrors.AlreadyExists("user", "email", email)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return User{}, apperrors.Internal(err)
	}

	user := User{
		Name:     input.Name,
		Email:    email,
		Password: string(hash),
	}

	next := make([]User, len(s.users), len(s.users)+1)
	copy(next, s.users)
	s.users = append(next, user)

	if err := storage.WriteJSON(s.adapter, storage.KeyUsers, s.users); err != nil {
		return user, err
	}

	s.logger.Info("user registered", slog.String("email", email))
	return user, nil
}

// Authenticate checks the given credentials against the stored hash.
// An unknown email and a wrong password are indistinguishable to the caller.
func (s *Store) Authenticate(email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
			return User{}, apperrors.Unauthorized("invalid credentials")
		}
		return u, nil
	}
	return User{}, apperrors.Unauthorized("invalid credentials")
}
