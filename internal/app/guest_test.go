package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sifnos_hotels/internal/app"
	"sifnos_hotels/internal/domain"
)

type fakeGuests map[string]domain.GuestSession

func (f fakeGuests) FindByToken(ctx context.Context, token string) (domain.GuestSession, error) {
	gs, ok := f[token]
	if !ok {
		return domain.GuestSession{}, domain.ErrNotFound
	}
	return gs, nil
}

func guestRepo() fakeGuests {
	return fakeGuests{
		"tok-123": {
			Booking: domain.GuestBooking{
				BookingID: 42,
				GuestName: "Maria",
				CheckIn:   time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC),
				CheckOut:  time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC),
				Status:    "confirmed",
			},
			Hotel: domain.HotelContext{Slug: "verina-suites", Name: "Verina Suites"},
		},
	}
}

func TestGuestValidate_Window(t *testing.T) {
	athens := time.FixedZone("EEST", 3*60*60)
	cases := []struct {
		now     time.Time
		wantErr error
	}{
		{time.Date(2025, 6, 8, 23, 59, 0, 0, time.UTC), domain.ErrTokenExpired},
		{time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), nil},
		{time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC), nil},
		{time.Date(2025, 6, 22, 23, 0, 0, 0, time.UTC), nil},
		{time.Date(2025, 6, 23, 0, 1, 0, 0, time.UTC), domain.ErrTokenExpired},
		// local clocks are compared on their UTC day
		{time.Date(2025, 6, 23, 1, 30, 0, 0, athens), nil},
		{time.Date(2025, 6, 9, 2, 0, 0, 0, athens), domain.ErrTokenExpired},
	}
	for _, tc := range cases {
		t.Run(tc.now.Format(time.RFC3339), func(t *testing.T) {
			now := tc.now
			svc := app.NewGuestService(guestRepo()).WithClock(func() time.Time { return now })

			gs, err := svc.Validate(context.Background(), "tok-123")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(42), gs.Booking.BookingID)
			assert.Equal(t, "verina-suites", gs.Hotel.Slug)
		})
	}
}

func TestGuestValidate_MissingAndUnknown(t *testing.T) {
	svc := app.NewGuestService(guestRepo()).WithClock(clock)

	_, err := svc.Validate(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrMissingToken)

	_, err = svc.Validate(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccessWindow(t *testing.T) {
	from, until := app.AccessWindow(
		time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC),
	)
	assert.Equal(t, date(2025, 6, 9), from)
	assert.Equal(t, date(2025, 6, 22), until)
}
