package booking

import (
	"time"

	"github.com/google/uuid"
)

// NewFromCreateRequest builds a pending Booking for the given customer.
// The customer fields are snapshotted here, they are not kept in sync with
// later profile edits.
func NewFromCreateRequest(req CreateBookingRequest, customerID, customerName, customerPhone string) Booking {
	now := time.Now().UTC()

	return Booking{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		ServiceTypeID: req.ServiceTypeID,
		Date:          req.Date,
		Time:          req.Time,
		Address:       req.Address,
		Notes:         req.Notes,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
