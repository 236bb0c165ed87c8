package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidRole  = errors.New("invalid user role")
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsStaff() bool {
	return r == RoleStaff
}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleStaff:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

type Email struct {
	value string
}

// NewEmail normalizes to lower case so identity comparisons (reservation
// ownership, review eligibility) are case-insensitive.
func NewEmail(value string) (Email, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" || !strings.Contains(trimmed, "@") {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: trimmed}, nil
}

func (e Email) String() string {
	return e.value
}

func (e Email) IsEmpty() bool {
	return e.value == ""
}

func (e Email) Equals(other string) bool {
	return e.value == strings.ToLower(strings.TrimSpace(other))
}

// User is the identity context attached to authenticated requests.
type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
}

// DisplayName mirrors the checkout snapshot rule: full name when present,
// username otherwise.
func (u User) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if full != "" {
		return full
	}
	return u.Username
}
