package users

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tikezone/platform/pkg/auth"
)

// ErrNotFound indicates the referenced identity is absent in the store
var ErrNotFound = errors.New("not found")

// Storage handles user, agent and tenant-page persistence
type Storage struct {
	db *sql.DB
}

// NewStorage creates a new storage over the given database handle
func NewStorage(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// GetUserByEmail fetches a user by email
func (s *Storage) GetUserByEmail(email string) (*User, error) {
	user := &User{}
	err := s.db.QueryRow(`
		SELECT id, name, email, role
		FROM users WHERE email = $1
	`, strings.ToLower(email)).Scan(&user.ID, &user.Name, &user.Email, &user.Role)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// GetUserByID fetches a user by id
func (s *Storage) GetUserByID(id string) (*User, error) {
	user := &User{}
	err := s.db.QueryRow(`
		SELECT id, name, email, role
		FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Name, &user.Email, &user.Role)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// CreateUser inserts a new user with the customer role. The display name
// defaults to the email's local part.
func (s *Storage) CreateUser(email string) (*User, error) {
	email = strings.ToLower(email)
	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}

	user := &User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Role:  auth.RoleCustomer,
	}

	_, err := s.db.Exec(`
		INSERT INTO users (id, name, email, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`, user.ID, user.Name, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// FindOrCreateUser resolves a user by email, creating the record on first login
func (s *Storage) FindOrCreateUser(email string) (*User, error) {
	user, err := s.GetUserByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.CreateUser(email)
}

// SetUserRole mutates the stored role and returns the updated user.
// Returns ErrNotFound when the record has vanished.
func (s *Storage) SetUserRole(id string, role auth.Role) (*User, error) {
	user := &User{}
	err := s.db.QueryRow(`
		UPDATE users SET role = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, role
	`, id, role).Scan(&user.ID, &user.Name, &user.Email, &user.Role)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return user, nil
}

// GetAgent fetches a scan agent record by id
func (s *Storage) GetAgent(id string) (*Agent, error) {
	agent := &Agent{}
	err := s.db.QueryRow(`
		SELECT id, name, email, status, last_active_at
		FROM agents WHERE id = $1
	`, id).Scan(&agent.ID, &agent.Name, &agent.Email, &agent.Status, &agent.LastActiveAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query agent: %w", err)
	}
	return agent, nil
}

// LookupPageSlug resolves a tenant subdomain to its canonical page slug.
// Returns ErrNotFound when the subdomain is unmapped.
func (s *Storage) LookupPageSlug(subdomain string) (string, error) {
	var slug string
	err := s.db.QueryRow(`
		SELECT slug FROM pages WHERE subdomain = $1
	`, strings.ToLower(subdomain)).Scan(&slug)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query page: %w", err)
	}
	return slug, nil
}
