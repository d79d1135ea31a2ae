package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/erp/storefront/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.@+]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// User is an account that can authenticate against the store.
// Customers are tied one-to-one to users.
type User struct {
	shared.BaseAggregateRoot
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsStaff      bool
	IsActive     bool
	LastLoginAt  *time.Time
}

// NewUser creates an active, non-staff user and records a UserRegistered event
func NewUser(username, email, password string) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		Email:             email,
		PasswordHash:      hash,
		IsActive:          true,
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// SetName sets first and last name
func (u *User) SetName(firstName, lastName string) error {
	if len(firstName) > 150 || len(lastName) > 150 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 150 characters")
	}
	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.Touch()
	return nil
}

// GrantStaff marks the user as privileged
func (u *User) GrantStaff() {
	u.IsStaff = true
	u.Touch()
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Principal returns the authorization view of this user
func (u *User) Principal() Principal {
	return Principal{
		UserID:   u.ID,
		Username: u.Username,
		IsStaff:  u.IsStaff,
	}
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return shared.NewFieldError("username", "Username must be at least 3 characters")
	}
	if len(username) > 150 {
		return shared.NewFieldError("username", "Username cannot exceed 150 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewFieldError("username", "Username may only contain letters, numbers and @/./+/-/_")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewFieldError("password", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewFieldError("password", "Password cannot exceed 128 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return shared.NewFieldError("email", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
