package domain

import (
	"errors"
	"time"
)

// Role is the closed set of account roles. ADMIN holds every right USER has.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("bad credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrUnknownRole        = errors.New("unknown role")
)

// ParseRole maps a stored or claimed role name onto a known Role. Unknown
// names yield "" and false.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	if !r.Valid() {
		return "", false
	}
	return r, true
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r grants every right of other. Unknown roles grant nothing.
func (r Role) AtLeast(other Role) bool {
	return r.rank() > 0 && r.rank() >= other.rank()
}

// User is the persisted account record.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
