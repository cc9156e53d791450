package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidyops/cleanhub/internal/config"
	"github.com/tidyops/cleanhub/internal/domain/booking"
	"github.com/tidyops/cleanhub/internal/domain/user"
	"github.com/tidyops/cleanhub/internal/http/middlewares"
	"github.com/tidyops/cleanhub/internal/observability"
)

// BookingEngine is the slice of the engine the HTTP layer consumes.
type BookingEngine interface {
	Create(ctx context.Context, req booking.CreateBookingRequest, asCustomer user.User) (booking.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) []booking.Booking
	ListAll(ctx context.Context) []booking.Booking
	GetByID(ctx context.Context, bookingID string) (booking.Booking, error)
	UpdateStatus(ctx context.Context, bookingID, newStatus string) (booking.Booking, error)
	UpdateFields(ctx context.Context, bookingID string, patch booking.UpdateBookingRequest) (booking.Booking, error)
}

type BookingsHandler struct {
	engine  BookingEngine
	session SessionStore
	metrics *observability.Prom
}

func NewBookingsHandler(engine BookingEngine, session SessionStore, metrics *observability.Prom) *BookingsHandler {
	return &BookingsHandler{
		engine:  engine,
		session: session,
		metrics: metrics,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}

func (h *BookingsHandler) Create(ctx *gin.Context) {
	var req booking.CreateBookingRequest

	if !BindJSON(ctx, &req) {
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	// The customer fields come from the session snapshot, the cached copy
	// of whoever logged in, not from a fresh directory read.
	snapshot, ok := h.session.Current(cctx)

	if !ok || snapshot.ID != userID {
		RespondUnAuthorized(ctx, "no_session", "No active session for this identity")
		return
	}

	created, err := h.engine.Create(cctx, req, snapshot)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// account vanished underneath the session, send the client home
			RespondError(ctx, http.StatusNotFound, "not_found", "Your account no longer exists", gin.H{"redirect": "/login"})
			return
		}

		RespondInternal(ctx, "Could not create booking")
		return
	}

	if h.metrics != nil {
		h.metrics.BookingsCreated.Inc()
	}

	ctx.JSON(http.StatusCreated, created)
}

// Mine lists the caller's own bookings in creation order.
func (h *BookingsHandler) Mine(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	items := h.engine.ListByCustomer(cctx, userID)

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// ListAll returns every booking system-wide, newest first, with an
// optional ?status= filter for the dashboard tabs.
func (h *BookingsHandler) ListAll(ctx *gin.Context) {
	statusFilter := ctx.Query("status")

	if statusFilter != "" && !validStatus(statusFilter) {
		RespondError(ctx, http.StatusBadRequest, "invalid_query", "Invalid status filter", gin.H{"status": "must be one of pending, confirmed, completed, cancelled"})
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	all := h.engine.ListAll(cctx)

	if statusFilter != "" {
		filtered := make([]booking.Booking, 0, len(all))

		for _, b := range all {
			if b.Status == statusFilter {
				filtered = append(filtered, b)
			}
		}

		all = filtered
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": all,
		"count": len(all),
	})
}

func (h *BookingsHandler) Get(ctx *gin.Context) {
	bookingID := ctx.Param("id")

	userID, _ := middlewares.UserIDFromContext(ctx)
	role, _ := middlewares.RoleFromContext(ctx)

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	b, err := h.engine.GetByID(cctx, bookingID)

	if err != nil {
		RespondError(ctx, http.StatusNotFound, "not_found", "Booking not found", gin.H{"redirect": "/customer/bookings"})
		return
	}

	if role != user.RoleStaff && b.CustomerID != userID {
		RespondForbidden(ctx, "You can only view your own bookings")
		return
	}

	ctx.JSON(http.StatusOK, b)
}

// UpdateFields patches a booking's schedule fields. Only the owner may
// edit, and only while the booking is still pending.
func (h *BookingsHandler) UpdateFields(ctx *gin.Context) {
	bookingID := ctx.Param("id")

	var req booking.UpdateBookingRequest

	if !BindJSON(ctx, &req) {
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	existing, err := h.engine.GetByID(cctx, bookingID)

	if err != nil {
		RespondError(ctx, http.StatusNotFound, "not_found", "Booking not found", gin.H{"redirect": "/customer/bookings"})
		return
	}

	if existing.CustomerID != userID {
		RespondForbidden(ctx, "You can only edit your own bookings")
		return
	}

	if existing.Status != booking.StatusPending {
		RespondConflict(ctx, "not_pending", "Only pending bookings can be edited")
		return
	}

	updated, err := h.engine.UpdateFields(cctx, bookingID, req)

	if err != nil {
		RespondError(ctx, http.StatusNotFound, "not_found", "Booking not found", gin.H{"redirect": "/customer/bookings"})
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *BookingsHandler) UpdateStatus(ctx *gin.Context) {
	bookingID := ctx.Param("id")

	var req UpdateStatusRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	updated, err := h.engine.UpdateStatus(cctx, bookingID, req.Status)

	if err != nil {
		// a missing id is a no-op for the engine, surfaced as 404 here
		RespondNotFound(ctx, "Booking not found")
		return
	}

	if h.metrics != nil {
		h.metrics.BookingTransitions.WithLabelValues(req.Status).Inc()
	}

	ctx.JSON(http.StatusOK, updated)
}

func validStatus(s string) bool {
	switch s {
	case booking.StatusPending, booking.StatusConfirmed, booking.StatusCompleted, booking.StatusCancelled:
		return true
	}
	return false
}
