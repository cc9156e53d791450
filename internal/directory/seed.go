package directory

import (
	"context"
	"time"

	"github.com/tidyops/cleanhub/internal/domain/booking"
	"github.com/tidyops/cleanhub/internal/domain/user"
)

const (
	DemoCustomerID    = "demo_customer_001"
	DemoCustomerEmail = "customer@demo.com"
	DemoStaffID       = "demo_staff_001"
	DemoStaffEmail    = "staff@demo.com"
	DemoPassword      = "demo123"
)

// SeedDemoAccounts inserts the two demo accounts for emails not already
// present, then persists regardless of whether anything changed. Safe to
// call on every startup; an already-seeded directory keeps its state,
// including bookings added to the demo customer since the first seed.
func (d *Directory) SeedDemoAccounts(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	db := d.load(ctx)
	now := time.Now().UTC()

	hash, err := d.hasher.Hash(DemoPassword)

	if err != nil {
		return err
	}

	demoAccounts := []user.User{
		{
			ID:           DemoCustomerID,
			Email:        DemoCustomerEmail,
			PasswordHash: hash,
			Name:         "Demo Customer",
			Phone:        "555-0001",
			Role:         user.RoleCustomer,
			CreatedAt:    now,
			Bookings: []booking.Booking{
				{
					ID:            "booking_demo_001",
					CustomerID:    DemoCustomerID,
					CustomerName:  "Demo Customer",
					CustomerPhone: "555-0001",
					ServiceTypeID: "basic",
					Date:          "2025-12-01",
					Time:          "10:00",
					Address:       "123 Demo Street, Test City",
					Notes:         "This is a demo booking",
					Status:        booking.StatusConfirmed,
					CreatedAt:     now,
					UpdatedAt:     now,
				},
			},
		},
		{
			ID:           DemoStaffID,
			Email:        DemoStaffEmail,
			PasswordHash: hash,
			Name:         "Demo Staff",
			Phone:        "555-0002",
			Role:         user.RoleStaff,
			CreatedAt:    now,
			Bookings:     []booking.Booking{},
		},
	}

	for _, account := range demoAccounts {
		key := NormalizeEmail(account.Email)

		if _, ok := db[key]; !ok {
			db[key] = account
		}
	}

	d.save(ctx, db)
	return nil
}
