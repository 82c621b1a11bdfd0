package domain

import (
	"encoding/json"
	"time"
)

type AbandonedStatus string

const (
	StatusAbandoned AbandonedStatus = "abandoned"
	StatusConverted AbandonedStatus = "converted"
)

// BookingDraft is what the client knows about a booking flow in progress.
type BookingDraft struct {
	BookingType   string          `json:"booking_type"`
	HotelID       *int64          `json:"hotel_id,omitempty"`
	RoomID        *int64          `json:"room_id,omitempty"`
	CheckIn       *time.Time      `json:"check_in,omitempty"`
	CheckOut      *time.Time      `json:"check_out,omitempty"`
	Guests        *int            `json:"guests,omitempty"`
	PriceEstimate *float64        `json:"price_estimate,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

type AbandonedBookingRecord struct {
	SessionID   string
	Draft       BookingDraft
	Status      AbandonedStatus
	AbandonedAt time.Time
	ConvertedAt *time.Time
	BookingID   *int64
}

// BookingEvent is published when a tracked session is abandoned or converted.
type BookingEvent struct {
	SessionID  string          `json:"session_id"`
	Status     AbandonedStatus `json:"status"`
	BookingID  *int64          `json:"booking_id,omitempty"`
	Draft      BookingDraft    `json:"draft"`
	OccurredAt time.Time       `json:"occurred_at"`
}

const (
	SubjectBookingAbandoned = "booking.abandoned"
	SubjectBookingConverted = "booking.converted"
)
