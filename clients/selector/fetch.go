package selector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Fetcher loads booked ranges for one court and day from the
// availability endpoint and converts them into clock-hour ranges the
// state machine understands.
type Fetcher struct {
	baseURL string
	loc     *time.Location
	client  *http.Client
}

// NewFetcher builds a Fetcher against baseURL (e.g. the gateway origin).
// loc is the calendar day's timezone; nil means UTC.
func NewFetcher(baseURL string, loc *time.Location, client *http.Client) *Fetcher {
	if loc == nil {
		loc = time.UTC
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Fetcher{baseURL: baseURL, loc: loc, client: client}
}

type availabilityRequest struct {
	CourtID   string `json:"court_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type availabilityResponse struct {
	Bookings []struct {
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	} `json:"bookings"`
}

// Fetch posts the full-day window for date (YYYY-MM-DD) and maps each
// returned booking onto [0, 24] clock hours of that day. Bookings that
// spill over midnight are clipped to the day's edges.
func (f *Fetcher) Fetch(ctx context.Context, courtID, date string) ([]Range, error) {
	dayStart, err := time.ParseInLocation("2006-01-02", date, f.loc)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	dayEnd := dayStart.Add(24 * time.Hour)

	body, err := json.Marshal(availabilityRequest{
		CourtID:   courtID,
		StartTime: dayStart.Format(time.RFC3339),
		EndTime:   dayEnd.Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/api/availability", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("availability request failed: %s", resp.Status)
	}

	var payload availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	ranges := make([]Range, 0, len(payload.Bookings))
	for _, b := range payload.Bookings {
		start, err := time.Parse(time.RFC3339, b.StartTime)
		if err != nil {
			return nil, fmt.Errorf("parse booking start: %w", err)
		}
		end, err := time.Parse(time.RFC3339, b.EndTime)
		if err != nil {
			return nil, fmt.Errorf("parse booking end: %w", err)
		}
		from := clamp(start.Sub(dayStart).Hours(), 0, 24)
		to := clamp(end.Sub(dayStart).Hours(), 0, 24)
		if to <= from {
			continue
		}
		ranges = append(ranges, Range{Start: from, End: to})
	}
	return ranges, nil
}
