package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Tushar656/venue-booking/services/auth-service/internal/sessions"
	"github.com/Tushar656/venue-booking/services/auth-service/internal/storage"
)

type memUserStore struct {
	mu    sync.Mutex
	users map[string]storage.User // keyed by id
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]storage.User{}}
}

func (s *memUserStore) Create(_ context.Context, user storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (storage.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return storage.User{}, pgx.ErrNoRows
}

func (s *memUserStore) GetByID(_ context.Context, id string) (storage.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return storage.User{}, pgx.ErrNoRows
}

type memRefreshStore struct {
	mu     sync.Mutex
	tokens map[string]sessions.RefreshToken // keyed by id
}

func newMemRefreshStore() *memRefreshStore {
	return &memRefreshStore{tokens: map[string]sessions.RefreshToken{}}
}

func (s *memRefreshStore) Create(_ context.Context, userID string, rawToken string, expiresAt time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.tokens[id] = sessions.RefreshToken{
		ID:        id,
		UserID:    userID,
		Hash:      sessions.HashToken(rawToken),
		ExpiresAt: expiresAt,
	}
	return id, nil
}

func (s *memRefreshStore) GetByHash(_ context.Context, hash string) (sessions.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.Hash == hash {
			return t, nil
		}
	}
	return sessions.RefreshToken{}, pgx.ErrNoRows
}

func (s *memRefreshStore) Revoke(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	t.RevokedAt = &now
	s.tokens[id] = t
	return nil
}

func newTestHandler() *AuthHandler {
	return NewAuthHandler("test-secret", newMemUserStore(), newMemRefreshStore(), 30*24*time.Hour)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestPasswordHashing(t *testing.T) {
	password := "pass123"
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	if hash == "" {
		t.Fatal("expected non-empty hash")
	}
	if err := verifyPassword(hash, password); err != nil {
		t.Fatalf("verifyPassword should succeed: %v", err)
	}
	if err := verifyPassword(hash, "wrong-pass"); err == nil {
		t.Fatal("verifyPassword should fail for wrong password")
	}
}

func TestSignupThenLogin(t *testing.T) {
	h := newTestHandler()

	rec := postJSON(t, h.Signup, signupRequest{Name: "Asha", Email: "asha@example.com", Password: "pass123"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	if created.AccessToken == "" || created.RefreshToken == "" || created.TokenType != "Bearer" {
		t.Fatalf("unexpected signup response: %+v", created)
	}

	rec = postJSON(t, h.Login, loginRequest{Email: "asha@example.com", Password: "pass123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, h.Login, loginRequest{Email: "asha@example.com", Password: "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login with wrong password status = %d, want 401", rec.Code)
	}

	rec = postJSON(t, h.Login, loginRequest{Email: "nobody@example.com", Password: "pass123"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login for unknown user status = %d, want 401", rec.Code)
	}
}

func TestSignupRejectsMissingFields(t *testing.T) {
	h := newTestHandler()
	rec := postJSON(t, h.Signup, signupRequest{Name: "X"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	h := newTestHandler()

	rec := postJSON(t, h.Signup, signupRequest{Email: "o@example.com", Password: "pass123"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d", rec.Code)
	}
	var first loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatal(err)
	}

	rec = postJSON(t, h.Refresh, refreshRequest{RefreshToken: first.RefreshToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var second loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatal(err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	// The old token is revoked and cannot be replayed.
	rec = postJSON(t, h.Refresh, refreshRequest{RefreshToken: first.RefreshToken})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("replayed refresh status = %d, want 401", rec.Code)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	h := newTestHandler()

	rec := postJSON(t, h.Signup, signupRequest{Email: "l@example.com", Password: "pass123"})
	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	rec = postJSON(t, h.Logout, logoutRequest{RefreshToken: resp.RefreshToken})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", rec.Code)
	}

	rec = postJSON(t, h.Refresh, refreshRequest{RefreshToken: resp.RefreshToken})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout status = %d, want 401", rec.Code)
	}

	// Logout with an unknown token is still a 204.
	rec = postJSON(t, h.Logout, logoutRequest{RefreshToken: "deadbeef"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout with unknown token status = %d, want 204", rec.Code)
	}
}

func TestMe(t *testing.T) {
	h := newTestHandler()

	rec := postJSON(t, h.Signup, signupRequest{Name: "Asha", Email: "me@example.com", Password: "pass123"})
	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rec2 := httptest.NewRecorder()
	h.Me(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("me status = %d, want 200: %s", rec2.Code, rec2.Body.String())
	}
	var me meResponse
	if err := json.Unmarshal(rec2.Body.Bytes(), &me); err != nil {
		t.Fatal(err)
	}
	if me.Email != "me@example.com" || me.Name != "Asha" {
		t.Fatalf("unexpected me response: %+v", me)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec3 := httptest.NewRecorder()
	h.Me(rec3, req)
	if rec3.Code != http.StatusUnauthorized {
		t.Fatalf("me with bad token status = %d, want 401", rec3.Code)
	}
}
