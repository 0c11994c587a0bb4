package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func principalEcho() (http.Handler, *string) {
	var principal string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &principal
}

func TestAuthMiddleware_EmptyKeys_PassThrough(t *testing.T) {
	mw := BearerAuthMiddleware(nil)
	inner, principal := principalEcho()
	handler := mw(inner)

	req := httptest.NewRequest("GET", "/api/v1/products", http.NoBody)
	req.Header.Set("X-Principal", "local-user")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("empty keys: got %d, want %d", rr.Code, http.StatusOK)
	}
	if *principal != "local-user" {
		t.Errorf("principal = %q, want local-user", *principal)
	}
}

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	mw := BearerAuthMiddleware(map[string]string{"secret": "alice"})
	inner, _ := principalEcho()
	handler := mw(inner)

	req := httptest.NewRequest("GET", "/api/v1/products", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing header: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_BasicScheme_401(t *testing.T) {
	mw := BearerAuthMiddleware(map[string]string{"secret": "alice"})
	inner, _ := principalEcho()
	handler := mw(inner)

	req := httptest.NewRequest("GET", "/api/v1/products", http.NoBody)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("basic scheme: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_InvalidToken_401(t *testing.T) {
	mw := BearerAuthMiddleware(map[string]string{"secret": "alice"})
	inner, _ := principalEcho()
	handler := mw(inner)

	req := httptest.NewRequest("GET", "/api/v1/products", http.NoBody)
	req.Header.Set("Authorization", "Bearer wrong")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("invalid token: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ValidToken_ResolvesPrincipal(t *testing.T) {
	mw := BearerAuthMiddleware(map[string]string{"secret": "alice"})
	inner, principal := principalEcho()
	handler := mw(inner)

	req := httptest.NewRequest("GET", "/api/v1/products", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("valid token: got %d, want %d", rr.Code, http.StatusOK)
	}
	if *principal != "alice" {
		t.Errorf("principal = %q, want alice", *principal)
	}
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	mw := BearerAuthMiddleware(map[string]string{"secret": "alice"})
	inner, _ := principalEcho()
	handler := mw(inner)

	for _, path := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest("GET", path, http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("%s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}
