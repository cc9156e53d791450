package session

import (
	"context"

	"github.com/tidyops/cleanhub/internal/domain/user"
	"github.com/tidyops/cleanhub/internal/kv"
)

const currentUserKey = "cleaning_current_user"

// Holder stores the "currently authenticated user" snapshot independently
// of the account directory. It is a cache with no invalidation: set at
// login/signup, cleared at logout, and never refreshed when the directory
// record changes underneath it.
type Holder struct {
	store *kv.Store
}

func New(store *kv.Store) *Holder {
	return &Holder{store: store}
}

func (h *Holder) Current(ctx context.Context) (user.User, bool) {
	var u user.User

	ok := h.store.Read(ctx, currentUserKey, &u)

	if !ok || u.ID == "" {
		return user.User{}, false
	}

	return u, true
}

func (h *Holder) Set(ctx context.Context, u user.User) {
	h.store.Write(ctx, currentUserKey, u)
}

func (h *Holder) Clear(ctx context.Context) {
	h.store.Remove(ctx, currentUserKey)
}
