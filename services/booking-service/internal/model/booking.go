package model

import "time"

const (
	StatusConfirmed = "Confirmed"
	StatusPending   = "Pending"
	StatusCancelled = "Cancelled"
)

type Court struct {
	ID           string
	OwnerID      string
	Name         string
	Sport        string
	Surface      string
	PricePerHour float64
	CreatedAt    time.Time
}

type Booking struct {
	ID           string
	CourtID      string
	CourtName    string
	OwnerID      string
	CustomerName string
	StartTime    time.Time
	EndTime      time.Time
	Amount       float64
	Status       string
	CancelledAt  *time.Time
	CreatedAt    time.Time
}
