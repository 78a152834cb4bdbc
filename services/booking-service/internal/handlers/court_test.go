package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func doCourt(h *CourtHandler, method, path, userID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		buf, _ := json.Marshal(body)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	rec := httptest.NewRecorder()
	if path == "/api/courts" {
		h.Courts(rec, req)
	} else {
		h.CourtByID(rec, req)
	}
	return rec
}

func TestCourtCRUD(t *testing.T) {
	store := newMemStore()
	h := NewCourtHandler(memCourtStore{store})

	rec := doCourt(h, http.MethodPost, "/api/courts", "", courtRequest{Name: "Center Court"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("create without identity: status = %d, want 401", rec.Code)
	}

	rec = doCourt(h, http.MethodPost, "/api/courts", "owner-1", courtRequest{Name: "Center Court", Sport: "tennis", PricePerHour: 30})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created courtItem
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.CourtID == "" || created.Name != "Center Court" {
		t.Fatalf("unexpected court: %+v", created)
	}
	// Omitted surface gets the default.
	if created.Surface != "Synthetic" {
		t.Fatalf("surface = %q, want Synthetic", created.Surface)
	}

	// Duplicate name for the same owner is a conflict.
	rec = doCourt(h, http.MethodPost, "/api/courts", "owner-1", courtRequest{Name: "Center Court"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate name status = %d, want 409", rec.Code)
	}

	// The same name under another owner is fine.
	rec = doCourt(h, http.MethodPost, "/api/courts", "owner-2", courtRequest{Name: "Center Court"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("other owner same name status = %d, want 201", rec.Code)
	}

	rec = doCourt(h, http.MethodGet, "/api/courts", "owner-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed []courtItem
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 {
		t.Fatalf("owner-1 courts = %d, want 1", len(listed))
	}

	rec = doCourt(h, http.MethodPut, "/api/courts/"+created.CourtID, "owner-1", courtRequest{Name: "Court A", Sport: "tennis", PricePerHour: 35})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update status = %d, want 204: %s", rec.Code, rec.Body.String())
	}

	// Updating someone else's court looks like a missing court.
	rec = doCourt(h, http.MethodPut, "/api/courts/"+created.CourtID, "owner-2", courtRequest{Name: "Hijack"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign update status = %d, want 404", rec.Code)
	}

	rec = doCourt(h, http.MethodDelete, "/api/courts/"+created.CourtID, "owner-2", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign delete status = %d, want 404", rec.Code)
	}
	rec = doCourt(h, http.MethodDelete, "/api/courts/"+created.CourtID, "owner-1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	rec = doCourt(h, http.MethodDelete, "/api/courts/"+created.CourtID, "owner-1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("double delete status = %d, want 404", rec.Code)
	}
}

func TestCourtValidation(t *testing.T) {
	store := newMemStore()
	h := NewCourtHandler(memCourtStore{store})

	rec := doCourt(h, http.MethodPost, "/api/courts", "owner-1", courtRequest{Name: "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank name status = %d, want 400", rec.Code)
	}
	rec = doCourt(h, http.MethodPost, "/api/courts", "owner-1", courtRequest{Name: "Court", PricePerHour: -5})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative price status = %d, want 400", rec.Code)
	}
}
