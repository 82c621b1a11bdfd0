package domain

import "context"

type HotelRepository interface {
	// ListActiveHotels returns active hotels matching p (location, amenity and
	// name filters), ordered by rating descending, with amenities, photos and rooms.
	ListActiveHotels(ctx context.Context, p SearchParams) ([]Hotel, error)
	GetHotelBySlug(ctx context.Context, slug string) (Hotel, error)
	ListActiveSlugs(ctx context.Context) ([]string, error)
}

type GuestRepository interface {
	// FindByToken returns ErrNotFound when the token resolves to no booking.
	FindByToken(ctx context.Context, token string) (GuestSession, error)
}

type AbandonedBookingRepository interface {
	UpsertAbandoned(ctx context.Context, rec AbandonedBookingRecord) error
	MarkConverted(ctx context.Context, sessionID string, bookingID *int64) error
}

type PartnerClient interface {
	// SearchHotels returns the raw "results" records of the affiliate API.
	SearchHotels(ctx context.Context, q PartnerQuery) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type RecentlyViewedStore interface {
	Push(ctx context.Context, visitorID, hotelID string, limit int) ([]string, error)
	List(ctx context.Context, visitorID string) ([]string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, ev BookingEvent) error
}

// ReplyGenerator turns a prompt into a short natural-language answer.
type ReplyGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
