package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Tushar656/venue-booking/services/booking-service/internal/model"
	"github.com/Tushar656/venue-booking/services/booking-service/internal/storage"
)

// BookingStore is the admission and query surface the handlers need.
// Admit must be atomic: of any set of concurrent admissions for
// overlapping intervals on one court, at most one may succeed.
type BookingStore interface {
	Admit(ctx context.Context, b *model.Booking) error
	ListOverlapping(ctx context.Context, courtID string, start, end time.Time) ([]model.Booking, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]model.Booking, error)
	Cancel(ctx context.Context, bookingID, ownerID string) (model.Booking, error)
}

type CourtStore interface {
	Create(ctx context.Context, court model.Court) (time.Time, error)
	GetByID(ctx context.Context, id string) (model.Court, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Court, error)
	Update(ctx context.Context, court model.Court) error
	Delete(ctx context.Context, id, ownerID string) error
}

type BookingHandler struct {
	bookings BookingStore
	courts   CourtStore
	logger   *slog.Logger
}

func NewBookingHandler(bookings BookingStore, courts CourtStore, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, courts: courts, logger: logger}
}

type availabilityRequest struct {
	CourtID   string `json:"court_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type intervalItem struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type availabilityResponse struct {
	Bookings []intervalItem `json:"bookings"`
}

type createBookingRequest struct {
	CourtID      string  `json:"court_id"`
	CustomerName string  `json:"customer_name"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Amount       float64 `json:"amount"`
}

type createBookingResponse struct {
	BookingID    string  `json:"booking_id"`
	CourtID      string  `json:"court_id"`
	CourtName    string  `json:"court_name"`
	CustomerName string  `json:"customer_name"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Amount       float64 `json:"amount"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
}

type cancelBookingResponse struct {
	BookingID   string `json:"booking_id"`
	Status      string `json:"status"`
	CancelledAt string `json:"cancelled_at"`
}

type listBookingItem struct {
	BookingID    string  `json:"booking_id"`
	CourtID      string  `json:"court_id"`
	CourtName    string  `json:"court_name"`
	CustomerName string  `json:"customer_name"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Amount       float64 `json:"amount"`
	Status       string  `json:"status"`
	CancelledAt  string  `json:"cancelled_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// Availability reports the active bookings on a court that intersect the
// queried window. The client renders everything else as free.
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.CourtID = strings.TrimSpace(req.CourtID)
	if req.CourtID == "" {
		http.Error(w, "court_id required", http.StatusBadRequest)
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		http.Error(w, "invalid end_time", http.StatusBadRequest)
		return
	}
	if !end.After(start) {
		http.Error(w, "end_time must be after start_time", http.StatusBadRequest)
		return
	}

	booked, err := h.bookings.ListOverlapping(r.Context(), req.CourtID, start, end)
	if err != nil {
		http.Error(w, "failed to load bookings", http.StatusInternalServerError)
		return
	}

	resp := availabilityResponse{Bookings: make([]intervalItem, 0, len(booked))}
	for _, b := range booked {
		resp.Bookings = append(resp.Bookings, intervalItem{
			StartTime: b.StartTime.UTC().Format(time.RFC3339),
			EndTime:   b.EndTime.UTC().Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// Bookings dispatches the collection routes: POST creates, GET lists.
func (h *BookingHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.CourtID = strings.TrimSpace(req.CourtID)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if req.CourtID == "" || req.CustomerName == "" {
		http.Error(w, "court_id and customer_name required", http.StatusBadRequest)
		return
	}
	if req.Amount < 0 {
		http.Error(w, "amount must not be negative", http.StatusBadRequest)
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		http.Error(w, "invalid end_time", http.StatusBadRequest)
		return
	}

	court, err := h.courts.GetByID(r.Context(), req.CourtID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "court not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load court", http.StatusInternalServerError)
		return
	}
	if court.OwnerID != userID {
		http.Error(w, "only the court owner can book this court", http.StatusForbidden)
		return
	}
	if !end.After(start) {
		http.Error(w, "end_time must be after start_time", http.StatusBadRequest)
		return
	}

	// Owners record bookings taken over the phone and may charge an
	// agreed amount; an omitted amount falls back to the list price.
	amount := req.Amount
	if amount == 0 {
		amount = court.PricePerHour * end.Sub(start).Hours()
	}

	booking := &model.Booking{
		CourtID:      court.ID,
		CourtName:    court.Name,
		OwnerID:      userID,
		CustomerName: req.CustomerName,
		StartTime:    start,
		EndTime:      end,
		Amount:       amount,
		Status:       model.StatusConfirmed,
	}
	if err := h.bookings.Admit(r.Context(), booking); err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "time conflict with an existing booking", http.StatusConflict)
			return
		}
		h.logger.Error("booking admission failed", "err", err, "court_id", court.ID)
		http.Error(w, "failed to create booking", http.StatusInternalServerError)
		return
	}

	// The created record is returned whole, court name included, so the
	// caller can render it without a second lookup.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(createBookingResponse{
		BookingID:    booking.ID,
		CourtID:      booking.CourtID,
		CourtName:    booking.CourtName,
		CustomerName: booking.CustomerName,
		StartTime:    booking.StartTime.UTC().Format(time.RFC3339),
		EndTime:      booking.EndTime.UTC().Format(time.RFC3339),
		Amount:       booking.Amount,
		Status:       booking.Status,
		CreatedAt:    booking.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	bookings, err := h.bookings.ListByOwner(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, "failed to list bookings", http.StatusInternalServerError)
		return
	}

	items := make([]listBookingItem, 0, len(bookings))
	for _, b := range bookings {
		item := listBookingItem{
			BookingID:    b.ID,
			CourtID:      b.CourtID,
			CourtName:    b.CourtName,
			CustomerName: b.CustomerName,
			StartTime:    b.StartTime.UTC().Format(time.RFC3339),
			EndTime:      b.EndTime.UTC().Format(time.RFC3339),
			Amount:       b.Amount,
			Status:       b.Status,
			CreatedAt:    b.CreatedAt.UTC().Format(time.RFC3339),
		}
		if b.CancelledAt != nil {
			item.CancelledAt = b.CancelledAt.UTC().Format(time.RFC3339)
		}
		items = append(items, item)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(items)
}

// BookingByID handles /api/booking/{id}; only DELETE is supported.
func (h *BookingHandler) BookingByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	bookingID := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/api/booking/"))
	if bookingID == "" || strings.Contains(bookingID, "/") {
		http.Error(w, "booking id required", http.StatusBadRequest)
		return
	}

	booking, err := h.bookings.Cancel(r.Context(), bookingID, userID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, storage.ErrNotOwner) {
			http.Error(w, "booking belongs to another owner", http.StatusForbidden)
			return
		}
		http.Error(w, "failed to cancel booking", http.StatusInternalServerError)
		return
	}

	resp := cancelBookingResponse{
		BookingID: booking.ID,
		Status:    booking.Status,
	}
	if booking.CancelledAt != nil {
		resp.CancelledAt = booking.CancelledAt.UTC().Format(time.RFC3339)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
