package user

import (
	"errors"
	"time"

	"github.com/tidyops/cleanhub/internal/domain/booking"
)

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
)

// User is one account in the directory. Bookings are embedded, the record
// is the single owner of every booking it holds.
type User struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	PasswordHash string            `json:"passwordHash,omitempty"` // persisted in the directory blob; redact before responding
	Name         string            `json:"name"`
	Phone        string            `json:"phone"`
	Role         string            `json:"role"`
	CreatedAt    time.Time         `json:"createdAt"`
	Bookings     []booking.Booking `json:"bookings"`
}

// Redacted returns a copy safe to hand to API clients.
func (u User) Redacted() User {
	u.PasswordHash = ""
	return u
}

var (
	ErrNotFound          = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrAccountNotFound   = errors.New("account not found")
	ErrIncorrectPassword = errors.New("incorrect password")
)
