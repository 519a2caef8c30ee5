package services

import (
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "scribble/internal/errors"
	"scribble/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(username, password string) (int64, error)
	Authenticate(username, password string) (models.User, error)
	GetUserByID(id int64) (models.User, error)
}

// UserService provides account registration and credential checks.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register stores a new account with a bcrypt hash of the password and
// returns the assigned id. The username must be unused; the plaintext
// password is never persisted.
func (s *UserService) Register(username, password string) (int64, error) {
	if username == "" {
		return 0, fmt.Errorf("%w: username is required", apperrors.ErrInvalidInput)
	}
	if password == "" {
		return 0, fmt.Errorf("%w: password is required", apperrors.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// The UNIQUE constraint is the backstop for concurrent registrations;
	// this check exists to return a typed error instead of a driver error.
	var existing int64
	err = tx.QueryRow("SELECT id FROM user WHERE username = ?", username).Scan(&existing)
	if err == nil {
		return 0, apperrors.ErrDuplicateUsername
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	res, err := tx.Exec("INSERT INTO user (username, password_hash) VALUES (?, ?)", username, string(hash))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Authenticate verifies a username/password pair and returns the account.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, password_hash FROM user WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperrors.ErrUnknownUser
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, apperrors.ErrBadPassword
	}

	// Don't hand the hash to callers
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single account by its id.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username FROM user WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperrors.ErrUnknownUser
		}
		return models.User{}, err
	}
	return user, nil
}
