package reset

import (
	"context"

	"github.com/tidyops/cleanhub/internal/directory"
	"github.com/tidyops/cleanhub/internal/domain/booking"
	"github.com/tidyops/cleanhub/internal/session"
)

// Resetter bundles the two erasure paths, selective and total.
type Resetter struct {
	dir     *directory.Directory
	session *session.Holder
}

func New(dir *directory.Directory, sess *session.Holder) *Resetter {
	return &Resetter{dir: dir, session: sess}
}

// ClearCurrentUserBookings empties the bookings of whoever the session
// snapshot points at. No-op without a session or when the directory no
// longer has the record.
func (r *Resetter) ClearCurrentUserBookings(ctx context.Context) {
	current, ok := r.session.Current(ctx)

	if !ok {
		return
	}

	u, err := r.dir.FindByID(ctx, current.ID)

	if err != nil {
		return
	}

	u.Bookings = []booking.Booking{}
	r.dir.Upsert(ctx, u)
}

// ClearEverything drops the whole directory and the session. The service
// catalog is deliberately left in place so it survives a full reset.
func (r *Resetter) ClearEverything(ctx context.Context) {
	r.dir.Drop(ctx)
	r.session.Clear(ctx)
}
