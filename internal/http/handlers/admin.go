package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidyops/cleanhub/internal/config"
	"github.com/tidyops/cleanhub/internal/domain/user"
)

type DataResetter interface {
	ClearCurrentUserBookings(ctx context.Context)
	ClearEverything(ctx context.Context)
}

type DirectoryLister interface {
	Snapshot(ctx context.Context) map[string]user.User
}

type AdminHandler struct {
	resetter DataResetter
	dir      DirectoryLister
}

func NewAdminHandler(resetter DataResetter, dir DirectoryLister) *AdminHandler {
	return &AdminHandler{resetter: resetter, dir: dir}
}

// ResetBookings empties the session user's bookings, nothing else.
func (h *AdminHandler) ResetBookings(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	h.resetter.ClearCurrentUserBookings(cctx)

	ctx.Status(http.StatusNoContent)
}

// ResetAll wipes the directory and the session. The service catalog
// survives on purpose.
func (h *AdminHandler) ResetAll(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	h.resetter.ClearEverything(cctx)

	ctx.Status(http.StatusNoContent)
}

// ListUsers dumps every registered account, redacted, in directory order.
func (h *AdminHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	db := h.dir.Snapshot(cctx)

	keys := make([]string, 0, len(db))
	for k := range db {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	users := make([]user.User, 0, len(db))
	for _, k := range keys {
		users = append(users, db[k].Redacted())
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": users,
		"count": len(users),
	})
}
