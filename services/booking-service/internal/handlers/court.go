package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tushar656/venue-booking/services/booking-service/internal/model"
	"github.com/Tushar656/venue-booking/services/booking-service/internal/storage"
)

type CourtHandler struct {
	courts CourtStore
}

func NewCourtHandler(courts CourtStore) *CourtHandler {
	return &CourtHandler{courts: courts}
}

type courtRequest struct {
	Name         string  `json:"name"`
	Sport        string  `json:"sport"`
	Surface      string  `json:"surface"`
	PricePerHour float64 `json:"price_per_hour"`
}

type courtItem struct {
	CourtID      string  `json:"court_id"`
	Name         string  `json:"name"`
	Sport        string  `json:"sport"`
	Surface      string  `json:"surface"`
	PricePerHour float64 `json:"price_per_hour"`
	CreatedAt    string  `json:"created_at"`
}

// Courts dispatches the collection routes: POST creates, GET lists.
func (h *CourtHandler) Courts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CourtHandler) create(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req courtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Sport = strings.TrimSpace(req.Sport)
	if req.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}
	if req.PricePerHour < 0 {
		http.Error(w, "price_per_hour must not be negative", http.StatusBadRequest)
		return
	}
	surface := strings.TrimSpace(req.Surface)
	if surface == "" {
		surface = "Synthetic"
	}

	court := model.Court{
		ID:           uuid.NewString(),
		OwnerID:      userID,
		Name:         req.Name,
		Sport:        req.Sport,
		Surface:      surface,
		PricePerHour: req.PricePerHour,
	}
	createdAt, err := h.courts.Create(r.Context(), court)
	if err != nil {
		if storage.IsDuplicateName(err) {
			http.Error(w, "a court with this name already exists", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create court", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(courtItem{
		CourtID:      court.ID,
		Name:         court.Name,
		Sport:        court.Sport,
		Surface:      court.Surface,
		PricePerHour: court.PricePerHour,
		CreatedAt:    createdAt.UTC().Format(time.RFC3339),
	})
}

func (h *CourtHandler) list(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	courts, err := h.courts.ListByOwner(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to list courts", http.StatusInternalServerError)
		return
	}

	items := make([]courtItem, 0, len(courts))
	for _, c := range courts {
		items = append(items, courtItem{
			CourtID:      c.ID,
			Name:         c.Name,
			Sport:        c.Sport,
			Surface:      c.Surface,
			PricePerHour: c.PricePerHour,
			CreatedAt:    c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(items)
}

// CourtByID handles /api/courts/{id}: PUT updates, DELETE removes.
func (h *CourtHandler) CourtByID(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	courtID := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/api/courts/"))
	if courtID == "" || strings.Contains(courtID, "/") {
		http.Error(w, "court id required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.update(w, r, courtID, userID)
	case http.MethodDelete:
		h.delete(w, r, courtID, userID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CourtHandler) update(w http.ResponseWriter, r *http.Request, courtID, userID string) {
	var req courtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}
	if req.PricePerHour < 0 {
		http.Error(w, "price_per_hour must not be negative", http.StatusBadRequest)
		return
	}

	court := model.Court{
		ID:           courtID,
		OwnerID:      userID,
		Name:         req.Name,
		Sport:        strings.TrimSpace(req.Sport),
		Surface:      strings.TrimSpace(req.Surface),
		PricePerHour: req.PricePerHour,
	}
	if err := h.courts.Update(r.Context(), court); err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "court not found", http.StatusNotFound)
			return
		}
		if storage.IsDuplicateName(err) {
			http.Error(w, "a court with this name already exists", http.StatusConflict)
			return
		}
		http.Error(w, "failed to update court", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CourtHandler) delete(w http.ResponseWriter, r *http.Request, courtID, userID string) {
	if err := h.courts.Delete(r.Context(), courtID, userID); err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "court not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete court", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
