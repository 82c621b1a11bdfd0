package app

import (
	"context"
	"strings"
	"time"

	"sifnos_hotels/internal/domain"
)

type GuestService struct {
	repo domain.GuestRepository
	now  func() time.Time
}

func NewGuestService(r domain.GuestRepository) *GuestService {
	return &GuestService{repo: r, now: time.Now}
}

func (s *GuestService) WithClock(now func() time.Time) *GuestService {
	s.now = now
	return s
}

// Validate resolves an opaque guest token. It returns ErrMissingToken,
// ErrNotFound or ErrTokenExpired for the three denial outcomes.
func (s *GuestService) Validate(ctx context.Context, token string) (domain.GuestSession, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.GuestSession{}, domain.ErrMissingToken
	}
	gs, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return domain.GuestSession{}, err
	}
	if !WithinAccessWindow(gs.Booking.CheckIn, gs.Booking.CheckOut, s.now()) {
		return domain.GuestSession{}, domain.ErrTokenExpired
	}
	return gs, nil
}

// AccessWindow returns the first and last calendar day on which the guest
// portal is open for a stay.
func AccessWindow(checkIn, checkOut time.Time) (from, until time.Time) {
	from = dayOf(checkIn).AddDate(0, 0, -domain.GuestAccessLeadDays)
	until = dayOf(checkOut).AddDate(0, 0, domain.GuestAccessGraceDays)
	return from, until
}

// WithinAccessWindow compares calendar days, both ends inclusive.
func WithinAccessWindow(checkIn, checkOut, now time.Time) bool {
	from, until := AccessWindow(checkIn, checkOut)
	today := dayOf(now)
	return !today.Before(from) && !today.After(until)
}
