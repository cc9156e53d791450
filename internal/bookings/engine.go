package bookings

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tidyops/cleanhub/internal/directory"
	"github.com/tidyops/cleanhub/internal/domain/booking"
	"github.com/tidyops/cleanhub/internal/domain/user"
)

// Engine implements the booking operations as scan-and-mutate over the
// account directory. Its mutex keeps every read-modify-write sequence
// serialized within the process, mirroring the single-writer model the
// storage layout assumes.
type Engine struct {
	mu  sync.Mutex
	dir *directory.Directory
}

func NewEngine(dir *directory.Directory) *Engine {
	return &Engine{dir: dir}
}

// Create appends a pending booking to the owning user's record. The
// customer fields are denormalized from the snapshot the caller passes in
// (typically the session copy), not re-read from the directory, so a
// stale snapshot produces a stale denormalization. That matches the
// session-as-cache contract.
//
// Returns user.ErrNotFound when the owner id is no longer in the
// directory; this is the one create path callers must branch on.
func (e *Engine) Create(ctx context.Context, req booking.CreateBookingRequest, asCustomer user.User) (booking.Booking, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	owner, err := e.dir.FindByID(ctx, asCustomer.ID)

	if err != nil {
		return booking.Booking{}, err
	}

	b := booking.NewFromCreateRequest(req, asCustomer.ID, asCustomer.Name, asCustomer.Phone)

	owner.Bookings = append(owner.Bookings, b)
	e.dir.Upsert(ctx, owner)

	return b, nil
}

// ListByCustomer returns the customer's bookings in creation order, or an
// empty slice when no such user exists.
func (e *Engine) ListByCustomer(ctx context.Context, customerID string) []booking.Booking {
	u, err := e.dir.FindByID(ctx, customerID)

	if err != nil {
		return []booking.Booking{}
	}

	if u.Bookings == nil {
		return []booking.Booking{}
	}

	return u.Bookings
}

// ListAll flattens every user's bookings and sorts newest-first. The sort
// is stable over the deterministic directory scan order, so equal
// timestamps keep a fixed relative order.
func (e *Engine) ListAll(ctx context.Context) []booking.Booking {
	db := e.dir.Snapshot(ctx)

	all := make([]booking.Booking, 0)

	for _, key := range sortedEmails(db) {
		all = append(all, db[key].Bookings...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return all
}

// GetByID scans every user's bookings for the id.
func (e *Engine) GetByID(ctx context.Context, bookingID string) (booking.Booking, error) {
	db := e.dir.Snapshot(ctx)

	for _, key := range sortedEmails(db) {
		for _, b := range db[key].Bookings {
			if b.ID == bookingID {
				return b, nil
			}
		}
	}

	return booking.Booking{}, booking.ErrNotFound
}

// UpdateStatus finds the booking anywhere in the directory, sets its
// status and refreshes updatedAt, and rewrites the owning user. Any
// status value is accepted here; which transitions are sensible is the
// caller's concern. booking.ErrNotFound is a no-op signal, nothing is
// persisted in that case.
func (e *Engine) UpdateStatus(ctx context.Context, bookingID, newStatus string) (booking.Booking, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	db := e.dir.Snapshot(ctx)

	for _, key := range sortedEmails(db) {
		u := db[key]

		for i := range u.Bookings {
			if u.Bookings[i].ID != bookingID {
				continue
			}

			u.Bookings[i].Status = newStatus
			u.Bookings[i].UpdatedAt = time.Now().UTC()

			e.dir.Upsert(ctx, u)
			return u.Bookings[i], nil
		}
	}

	return booking.Booking{}, booking.ErrNotFound
}

// UpdateFields merges the non-empty patch fields into the booking and
// refreshes updatedAt. Intended for bookings still pending; that
// precondition is enforced at the HTTP layer, not here.
func (e *Engine) UpdateFields(ctx context.Context, bookingID string, patch booking.UpdateBookingRequest) (booking.Booking, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	db := e.dir.Snapshot(ctx)

	for _, key := range sortedEmails(db) {
		u := db[key]

		for i := range u.Bookings {
			if u.Bookings[i].ID != bookingID {
				continue
			}

			applyPatch(&u.Bookings[i], patch)
			u.Bookings[i].UpdatedAt = time.Now().UTC()

			e.dir.Upsert(ctx, u)
			return u.Bookings[i], nil
		}
	}

	return booking.Booking{}, booking.ErrNotFound
}

func applyPatch(b *booking.Booking, patch booking.UpdateBookingRequest) {
	if patch.ServiceTypeID != "" {
		b.ServiceTypeID = patch.ServiceTypeID
	}
	if patch.Date != "" {
		b.Date = patch.Date
	}
	if patch.Time != "" {
		b.Time = patch.Time
	}
	if patch.Address != "" {
		b.Address = patch.Address
	}
	if patch.Notes != "" {
		b.Notes = patch.Notes
	}
}

func sortedEmails(db map[string]user.User) []string {
	keys := make([]string, 0, len(db))
	for k := range db {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	return keys
}
