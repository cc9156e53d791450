package reset_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/tidyops/cleanhub/internal/catalog"
	"github.com/tidyops/cleanhub/internal/directory"
	"github.com/tidyops/cleanhub/internal/domain/booking"
	"github.com/tidyops/cleanhub/internal/domain/user"
	"github.com/tidyops/cleanhub/internal/kv"
	"github.com/tidyops/cleanhub/internal/reset"
	"github.com/tidyops/cleanhub/internal/session"
)

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (fakeHasher) Check(hash, plain string) error {
	if hash != "h:"+plain {
		return errors.New("mismatch")
	}
	return nil
}

type world struct {
	mem      *kv.Memory
	dir      *directory.Directory
	sess     *session.Holder
	cat      *catalog.Catalog
	resetter *reset.Resetter
}

func newWorld() *world {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := kv.NewMemory()
	store := kv.NewStore(mem, log, nil)

	dir := directory.New(store, fakeHasher{})
	sess := session.New(store)
	cat := catalog.New(store)

	return &world{
		mem:      mem,
		dir:      dir,
		sess:     sess,
		cat:      cat,
		resetter: reset.New(dir, sess),
	}
}

func (w *world) addUserWithBooking(t *testing.T, email string) user.User {
	t.Helper()

	ctx := context.Background()

	u, err := w.dir.Register(ctx, email, "pw", "Someone", "555", user.RoleCustomer)
	if err != nil {
		t.Fatal(err)
	}

	u.Bookings = []booking.Booking{{
		ID:         "bk-" + email,
		CustomerID: u.ID,
		Status:     booking.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}}
	w.dir.Upsert(ctx, u)

	return u
}

func TestClearCurrentUserBookingsOnlyTouchesSessionUser(t *testing.T) {
	ctx := context.Background()
	w := newWorld()

	a := w.addUserWithBooking(t, "a@example.com")
	w.addUserWithBooking(t, "b@example.com")

	w.sess.Set(ctx, a)

	w.resetter.ClearCurrentUserBookings(ctx)

	gotA, err := w.dir.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("user record should survive: %v", err)
	}
	if len(gotA.Bookings) != 0 {
		t.Fatalf("session user's bookings not cleared: %+v", gotA.Bookings)
	}

	// the other account is untouched
	db := w.dir.Snapshot(ctx)
	other := db["b@example.com"]
	if len(other.Bookings) != 1 {
		t.Fatalf("other user's bookings were touched: %+v", other.Bookings)
	}
}

func TestClearCurrentUserBookingsWithoutSessionIsNoOp(t *testing.T) {
	ctx := context.Background()
	w := newWorld()

	w.addUserWithBooking(t, "a@example.com")

	w.resetter.ClearCurrentUserBookings(ctx)

	db := w.dir.Snapshot(ctx)
	if len(db["a@example.com"].Bookings) != 1 {
		t.Fatal("bookings were cleared without a session")
	}
}

func TestClearEverythingSparesTheCatalog(t *testing.T) {
	ctx := context.Background()
	w := newWorld()

	w.cat.SeedDefaults(ctx)
	a := w.addUserWithBooking(t, "a@example.com")
	w.sess.Set(ctx, a)

	w.resetter.ClearEverything(ctx)

	keys := w.mem.Keys()

	if slices.Contains(keys, "cleaning_users_db") {
		t.Fatal("directory key survived the reset")
	}
	if slices.Contains(keys, "cleaning_current_user") {
		t.Fatal("session key survived the reset")
	}
	if !slices.Contains(keys, "cleaning_service_types") {
		t.Fatal("catalog key should survive the reset")
	}

	if _, ok := w.sess.Current(ctx); ok {
		t.Fatal("session still readable after reset")
	}
	if len(w.dir.Snapshot(ctx)) != 0 {
		t.Fatal("directory still has entries after reset")
	}
}
