package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidyops/cleanhub/internal/config"
	"github.com/tidyops/cleanhub/internal/domain/user"
	"github.com/tidyops/cleanhub/internal/observability"
)

// AccountDirectory is the slice of the directory the auth flows need.
type AccountDirectory interface {
	Register(ctx context.Context, email, password, name, phone, role string) (user.User, error)
	Authenticate(ctx context.Context, email, password string) (user.User, error)
}

// SessionStore is the single current-user snapshot. The handlers keep it
// in sync on login/signup/logout; nothing refreshes it in between.
type SessionStore interface {
	Current(ctx context.Context) (user.User, bool)
	Set(ctx context.Context, u user.User)
	Clear(ctx context.Context)
}

type TokenIssuer interface {
	GenerateAccessToken(userID, email, role string) (string, error)
}

type AuthHandler struct {
	dir     AccountDirectory
	session SessionStore
	jwt     TokenIssuer
	metrics *observability.Prom
}

func NewAuthHandler(dir AccountDirectory, session SessionStore, jwt TokenIssuer, metrics *observability.Prom) *AuthHandler {
	return &AuthHandler{
		dir:     dir,
		session: session,
		jwt:     jwt,
		metrics: metrics,
	}
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,min=2"`
	Phone    string `json:"phone" binding:"required,min=7"`
	Role     string `json:"role" binding:"required,oneof=customer staff"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	u, err := h.dir.Register(cctx, req.Email, req.Password, req.Name, req.Phone, req.Role)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "email_taken", "Email already registered")
			return
		}

		RespondInternal(ctx, "Could not create account")
		return
	}

	accessToken, err := h.jwt.GenerateAccessToken(u.ID, u.Email, u.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	h.session.Set(cctx, u)

	if h.metrics != nil {
		h.metrics.AccountsRegistered.Inc()
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"accessToken": accessToken,
		"user":        u.Redacted(),
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.dir.Authenticate(cctx, req.Email, req.Password)

	if err != nil {
		// both failures surface verbatim so the form can show which one it was
		switch {
		case errors.Is(err, user.ErrAccountNotFound):
			RespondUnAuthorized(ctx, "account_not_found", "Account not found")
		case errors.Is(err, user.ErrIncorrectPassword):
			RespondUnAuthorized(ctx, "incorrect_password", "Incorrect password")
		default:
			RespondInternal(ctx, "Could not log in")
		}
		return
	}

	accessToken, err := h.jwt.GenerateAccessToken(foundUser.ID, foundUser.Email, foundUser.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	h.session.Set(cctx, foundUser)

	ctx.JSON(http.StatusOK, gin.H{
		"accessToken": accessToken,
		"user":        foundUser.Redacted(),
	})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	h.session.Clear(cctx)

	ctx.Status(http.StatusNoContent)
}

// Me returns the session snapshot, the app's identity on startup.
func (h *AuthHandler) Me(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	current, ok := h.session.Current(cctx)

	if !ok {
		RespondUnAuthorized(ctx, "no_session", "No active session")
		return
	}

	ctx.JSON(http.StatusOK, current.Redacted())
}
