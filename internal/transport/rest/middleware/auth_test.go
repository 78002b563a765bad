package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"quizlive/internal/service"
)

func TestRequireHost(t *testing.T) {
	authSvc := service.NewAuthService("1234", "test-secret")
	mw := NewAuthMiddleware(authSvc)

	var gotHostID string
	handler := mw.RequireHost(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHostID = GetHostID(r.Context())
	}))

	// No header.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/admin/control", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	// Garbage token.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/admin/control", nil)
	req.Header.Set("Authorization", "Bearer nonsense")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rec.Code)
	}

	// Valid host token.
	resp, err := authSvc.LoginPIN("1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/v1/admin/control", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotHostID != resp.HostID {
		t.Fatalf("host id not propagated: %q vs %q", gotHostID, resp.HostID)
	}
}

func TestRequirePlayer(t *testing.T) {
	authSvc := service.NewAuthService("1234", "test-secret")
	mw := NewAuthMiddleware(authSvc)

	var gotID, gotName string
	handler := mw.RequirePlayer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetParticipantID(r.Context())
		gotName = GetParticipantName(r.Context())
	}))

	token, err := authSvc.GeneratePlayerToken("p_abc12345", "Alice")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	// Bearer header.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/questions/current", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "p_abc12345" || gotName != "Alice" {
		t.Fatalf("claims not propagated: %q / %q", gotID, gotName)
	}

	// Query param fallback.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/v1/questions/current?token="+token, nil)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 via query token, got %d", rec.Code)
	}

	// A host token is not a player token.
	resp, err := authSvc.LoginPIN("1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/v1/questions/current", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for host token, got %d", rec.Code)
	}
}
