package booking

import (
	"errors"
	"time"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Booking lives inside its owning user's record. CustomerID is redundant
// with that ownership but keeps system-wide listings displayable without
// a join back to the account.
type Booking struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customerId"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	ServiceTypeID string    `json:"serviceTypeId"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Address       string    `json:"address"`
	Notes         string    `json:"notes"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("booking not found")

type CreateBookingRequest struct {
	ServiceTypeID string `json:"serviceTypeId" binding:"required"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
	Address       string `json:"address" binding:"required,min=5,max=300"`
	Notes         string `json:"notes" binding:"omitempty,max=1000"`
}

// UpdateBookingRequest is a partial patch of the schedule fields. Empty
// fields leave the stored value unchanged.
type UpdateBookingRequest struct {
	ServiceTypeID string `json:"serviceTypeId" binding:"omitempty"`
	Date          string `json:"date" binding:"omitempty"`
	Time          string `json:"time" binding:"omitempty"`
	Address       string `json:"address" binding:"omitempty,min=5,max=300"`
	Notes         string `json:"notes" binding:"omitempty,max=1000"`
}
