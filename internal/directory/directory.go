package directory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/cleanhub/internal/domain/booking"
	"github.com/tidyops/cleanhub/internal/domain/user"
	"github.com/tidyops/cleanhub/internal/kv"
	"github.com/tidyops/cleanhub/internal/security"
)

// usersKey holds the whole directory as one JSON document:
// normalized email -> user record. Every mutation rewrites the blob.
const usersKey = "cleaning_users_db"

// Directory is the sole identity store. The mutex serializes every
// read-modify-write of the blob, so mutations from one process cannot
// interleave. Two processes sharing the same store can still race, last
// full-directory write wins; fixing that needs a real multi-writer
// backend and is out of scope here.
type Directory struct {
	mu     sync.Mutex
	store  *kv.Store
	hasher security.Hasher
}

func New(store *kv.Store, hasher security.Hasher) *Directory {
	return &Directory{store: store, hasher: hasher}
}

// NormalizeEmail lowercases and trims, the canonical directory key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *Directory) load(ctx context.Context) map[string]user.User {
	db := map[string]user.User{}
	d.store.Read(ctx, usersKey, &db)

	return db
}

func (d *Directory) save(ctx context.Context, db map[string]user.User) {
	d.store.Write(ctx, usersKey, db)
}

// sortedEmails fixes the scan order, Go maps iterate randomly.
func sortedEmails(db map[string]user.User) []string {
	keys := make([]string, 0, len(db))
	for k := range db {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	return keys
}

func (d *Directory) Register(ctx context.Context, email, password, name, phone, role string) (user.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	db := d.load(ctx)
	key := NormalizeEmail(email)

	if _, ok := db[key]; ok {
		return user.User{}, user.ErrEmailTaken
	}

	hash, err := d.hasher.Hash(password)

	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Phone:        phone,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
		Bookings:     []booking.Booking{},
	}

	db[key] = u
	d.save(ctx, db)

	return u, nil
}

func (d *Directory) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	db := d.load(ctx)

	u, ok := db[NormalizeEmail(email)]

	if !ok {
		return user.User{}, user.ErrAccountNotFound
	}

	err := d.hasher.Check(u.PasswordHash, password)

	if err != nil {
		return user.User{}, user.ErrIncorrectPassword
	}

	return u, nil
}

// FindByID scans the whole directory. Fine at this scale; a real store
// would want a secondary id -> email index instead.
func (d *Directory) FindByID(ctx context.Context, id string) (user.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	db := d.load(ctx)

	for _, key := range sortedEmails(db) {
		if db[key].ID == id {
			return db[key], nil
		}
	}

	return user.User{}, user.ErrNotFound
}

// Upsert replaces the entry for the user's normalized email and rewrites
// the blob. Callers use it after any mutation of a user's bookings.
func (d *Directory) Upsert(ctx context.Context, u user.User) {
	d.mu.Lock()
	defer d.mu.Unlock()

	db := d.load(ctx)
	db[NormalizeEmail(u.Email)] = u
	d.save(ctx, db)
}

// Snapshot returns the directory as currently persisted.
func (d *Directory) Snapshot(ctx context.Context) map[string]user.User {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.load(ctx)
}

// Drop erases the whole directory key.
func (d *Directory) Drop(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.store.Remove(ctx, usersKey)
}
