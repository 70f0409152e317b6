package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dcms/pkg/jwt"
	"dcms/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

func issueTokens(t *testing.T, iss *jwt.Issuer, userID uuid.UUID, role string) *jwt.Pair {
	t.Helper()
	pair, err := iss.Issue(context.Background(), userID.String(), "u@x.com", role)
	if err != nil {
		t.Fatalf("Issue error = %v", err)
	}
	return pair
}

func TestAuth(t *testing.T) {
	iss := jwt.NewIssuer("access-secret", "refresh-secret", time.Minute, time.Hour, "dcms-test")
	userID := uuid.New()
	pair := issueTokens(t, iss, userID, "USER")

	var gotID uuid.UUID
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = utils.GetUserIDFromContext(r.Context())
		gotRole, _ = utils.GetRoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Auth(iss, zaptest.NewLogger(t))(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid access token", "Bearer " + pair.AccessToken, http.StatusOK},
		{"lowercase scheme", "bearer " + pair.AccessToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"no scheme", pair.AccessToken, http.StatusUnauthorized},
		{"refresh token as access", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK && (gotID != userID || gotRole != "USER") {
				t.Errorf("context user = %s/%s, want %s/USER", gotID, gotRole, userID)
			}
		})
	}
}

func TestRefreshAuthKeepsToken(t *testing.T) {
	iss := jwt.NewIssuer("access-secret", "refresh-secret", time.Minute, time.Hour, "dcms-test")
	pair := issueTokens(t, iss, uuid.New(), "USER")

	var got string
	handler := RefreshAuth(iss, zaptest.NewLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = utils.GetTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got != pair.RefreshToken {
		t.Error("refresh token not stored in context")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("access token accepted as refresh, status = %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := RequireRole(zaptest.NewLogger(t), "ADMIN")(ok)

	tests := []struct {
		name string
		role string
		want int
	}{
		{"admin", "ADMIN", http.StatusOK},
		{"user", "USER", http.StatusForbidden},
		{"anonymous", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/articles", nil)
			if tt.role != "" {
				req = req.WithContext(utils.SetUserContext(req.Context(), uuid.New(), "u@x.com", tt.role))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	handler := Recover(zaptest.NewLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	handler := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	req := httptest.NewRequest(http.MethodOptions, "/api/articles", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if called {
		t.Error("preflight reached the handler")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing allow-origin header")
	}
	if rec.Header().Get("Access-Control-Allow-Methods") != http.MethodPatch {
		t.Errorf("allow-methods = %q", rec.Header().Get("Access-Control-Allow-Methods"))
	}
	if !containsValue(rec.Header().Values("Vary"), "Origin") {
		t.Error("missing Vary: Origin")
	}
}

func TestCORSPlainOptionsReachesHandler(t *testing.T) {
	called := false
	handler := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	// no Access-Control-Request-Method, so not a preflight
	req := httptest.NewRequest(http.MethodOptions, "/api/articles", nil)
	req.Header.Set("Origin", "https://app.example.com")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("plain OPTIONS request was answered by the CORS layer")
	}
}

func TestCORSActualRequest(t *testing.T) {
	handler := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing allow-origin header on actual request")
	}
	if !containsValue(rec.Header().Values("Vary"), "Origin") {
		t.Error("missing Vary: Origin")
	}
}

func containsValue(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
