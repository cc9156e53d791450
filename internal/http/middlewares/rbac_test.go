package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/tidyops/cleanhub/internal/auth"
	"github.com/tidyops/cleanhub/internal/domain/user"
	"github.com/tidyops/cleanhub/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct {
	claims *auth.Claims
	err    error
}

func (s *stubVerifier) VerifyAccessToken(token string) (*auth.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func gatedRouter(verifier middlewares.TokenVerifier, requiredRole string) *gin.Engine {
	r := gin.New()

	mw := middlewares.NewAuthMiddleware(verifier)

	chain := []gin.HandlerFunc{mw.RequireAuth()}
	if requiredRole != "" {
		chain = append(chain, mw.RequireRole(requiredRole))
	}
	chain = append(chain, func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": id})
	})

	r.GET("/protected", chain...)
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name           string
		verifier       middlewares.TokenVerifier
		authHeader     string
		wantStatusCode int
	}{
		{
			name:           "valid_token",
			verifier:       &stubVerifier{claims: &auth.Claims{UserID: "u1", Role: user.RoleCustomer}},
			authHeader:     "Bearer good",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_header",
			verifier:       &stubVerifier{claims: &auth.Claims{UserID: "u1"}},
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "not_bearer",
			verifier:       &stubVerifier{claims: &auth.Claims{UserID: "u1"}},
			authHeader:     "Basic dXNlcjpwYXNz",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "empty_token",
			verifier:       &stubVerifier{claims: &auth.Claims{UserID: "u1"}},
			authHeader:     "Bearer ",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "verification_fails",
			verifier:       &stubVerifier{err: errors.New("expired")},
			authHeader:     "Bearer bad",
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			r := gatedRouter(tt.verifier, "")

			w := get(r, tt.authHeader)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		role           string
		required       string
		wantStatusCode int
	}{
		{"matching_role", user.RoleStaff, user.RoleStaff, http.StatusOK},
		{"wrong_role", user.RoleCustomer, user.RoleStaff, http.StatusForbidden},
		{"customer_gate", user.RoleCustomer, user.RoleCustomer, http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			verifier := &stubVerifier{claims: &auth.Claims{UserID: "u1", Role: tt.role}}
			r := gatedRouter(verifier, tt.required)

			w := get(r, "Bearer good")

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
