package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/tidyops/cleanhub/internal/domain/user"
	"github.com/tidyops/cleanhub/internal/http/handlers"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// fakes for the handler-side interfaces

type fakeDirectory struct {
	registerFn     func(ctx context.Context, email, password, name, phone, role string) (user.User, error)
	authenticateFn func(ctx context.Context, email, password string) (user.User, error)
}

func (f *fakeDirectory) Register(ctx context.Context, email, password, name, phone, role string) (user.User, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, email, password, name, phone, role)
	}
	return user.User{}, nil
}

func (f *fakeDirectory) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	if f.authenticateFn != nil {
		return f.authenticateFn(ctx, email, password)
	}
	return user.User{}, nil
}

type fakeSession struct {
	current *user.User
}

func (f *fakeSession) Current(ctx context.Context) (user.User, bool) {
	if f.current == nil {
		return user.User{}, false
	}
	return *f.current, true
}

func (f *fakeSession) Set(ctx context.Context, u user.User) { f.current = &u }
func (f *fakeSession) Clear(ctx context.Context)            { f.current = nil }

type fakeIssuer struct {
	err error
}

func (f *fakeIssuer) GenerateAccessToken(userID, email, role string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + userID, nil
}

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func TestSignUpHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		dirSetUp       func(*fakeDirectory)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{
				"email": "jane@example.com",
				"password": "secret1",
				"name": "Jane",
				"phone": "555-0001",
				"role": "customer"
			}`,
			dirSetUp: func(f *fakeDirectory) {
				f.registerFn = func(ctx context.Context, email, password, name, phone, role string) (user.User, error) {
					return user.User{ID: "u1", Email: email, Name: name, Phone: phone, Role: role}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "validation_error",
			body:           `{"email": "not-an-email"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "invalid_role",
			body: `{
				"email": "jane@example.com",
				"password": "secret1",
				"name": "Jane",
				"phone": "555-0001",
				"role": "admin"
			}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "email_taken",
			body: `{
				"email": "jane@example.com",
				"password": "secret1",
				"name": "Jane",
				"phone": "555-0001",
				"role": "customer"
			}`,
			dirSetUp: func(f *fakeDirectory) {
				f.registerFn = func(ctx context.Context, email, password, name, phone, role string) (user.User, error) {
					return user.User{}, user.ErrEmailTaken
				}
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			dir := &fakeDirectory{}
			if tt.dirSetUp != nil {
				tt.dirSetUp(dir)
			}

			sess := &fakeSession{}
			h := handlers.NewAuthHandler(dir, sess, &fakeIssuer{}, nil)

			r := setupRouter(http.MethodPost, "/auth/signup", h.SignUp)

			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusCreated {
				if sess.current == nil || sess.current.ID != "u1" {
					t.Fatal("session was not set on signup")
				}

				var resp struct {
					AccessToken string    `json:"accessToken"`
					User        user.User `json:"user"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatal(err)
				}
				if resp.AccessToken == "" {
					t.Fatal("missing access token")
				}
				if resp.User.PasswordHash != "" {
					t.Fatal("password hash leaked in response")
				}
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		dirSetUp       func(*fakeDirectory)
		wantStatusCode int
		wantCode       string
	}{
		{
			name: "success",
			body: `{"email": "jane@example.com", "password": "secret1"}`,
			dirSetUp: func(f *fakeDirectory) {
				f.authenticateFn = func(ctx context.Context, email, password string) (user.User, error) {
					return user.User{ID: "u1", Email: email, Role: user.RoleCustomer}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "account_not_found",
			body: `{"email": "nobody@example.com", "password": "secret1"}`,
			dirSetUp: func(f *fakeDirectory) {
				f.authenticateFn = func(ctx context.Context, email, password string) (user.User, error) {
					return user.User{}, user.ErrAccountNotFound
				}
			},
			wantStatusCode: http.StatusUnauthorized,
			wantCode:       "account_not_found",
		},
		{
			name: "incorrect_password",
			body: `{"email": "jane@example.com", "password": "wrong"}`,
			dirSetUp: func(f *fakeDirectory) {
				f.authenticateFn = func(ctx context.Context, email, password string) (user.User, error) {
					return user.User{}, user.ErrIncorrectPassword
				}
			},
			wantStatusCode: http.StatusUnauthorized,
			wantCode:       "incorrect_password",
		},
		{
			name:           "validation_error",
			body:           `{"email": ""}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			dir := &fakeDirectory{}
			if tt.dirSetUp != nil {
				tt.dirSetUp(dir)
			}

			sess := &fakeSession{}
			h := handlers.NewAuthHandler(dir, sess, &fakeIssuer{}, nil)

			r := setupRouter(http.MethodPost, "/auth/login", h.Login)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantCode != "" {
				var resp struct {
					Error struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatal(err)
				}
				if resp.Error.Code != tt.wantCode {
					t.Fatalf("error code = %q, want %q", resp.Error.Code, tt.wantCode)
				}
			}

			if tt.wantStatusCode == http.StatusOK && sess.current == nil {
				t.Fatal("session was not set on login")
			}
		})
	}
}

func TestLogoutClearsSession(t *testing.T) {
	sess := &fakeSession{current: &user.User{ID: "u1"}}
	h := handlers.NewAuthHandler(&fakeDirectory{}, sess, &fakeIssuer{}, nil)

	r := setupRouter(http.MethodPost, "/auth/logout", h.Logout)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("got status %d", w.Code)
	}
	if sess.current != nil {
		t.Fatal("session survived logout")
	}
}

func TestMeHandler(t *testing.T) {
	t.Run("no_session", func(t *testing.T) {
		h := handlers.NewAuthHandler(&fakeDirectory{}, &fakeSession{}, &fakeIssuer{}, nil)

		r := setupRouter(http.MethodGet, "/auth/me", h.Me)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("got status %d", w.Code)
		}
	})

	t.Run("with_session", func(t *testing.T) {
		sess := &fakeSession{current: &user.User{ID: "u1", Name: "Jane", PasswordHash: "hash"}}
		h := handlers.NewAuthHandler(&fakeDirectory{}, sess, &fakeIssuer{}, nil)

		r := setupRouter(http.MethodGet, "/auth/me", h.Me)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}

		var resp user.User
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.ID != "u1" || resp.PasswordHash != "" {
			t.Fatalf("unexpected payload: %+v", resp)
		}
	})
}
