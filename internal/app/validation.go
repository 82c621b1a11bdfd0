package app

import (
	"time"

	"sifnos_hotels/internal/domain"
)

const MaxStayNights = 30

// ValidatePartnerQuery checks stay dates before anything is sent upstream.
func ValidatePartnerQuery(q domain.PartnerQuery, now time.Time) error {
	in, out := dayOf(q.CheckIn), dayOf(q.CheckOut)
	if in.Before(dayOf(now)) {
		return domain.NewValidationError("check_in", "check-in date cannot be in the past")
	}
	if !out.After(in) {
		return domain.NewValidationError("check_out", "check-out date must be after check-in date")
	}
	if nights(in, out) > MaxStayNights {
		return domain.NewValidationError("check_out", "stay cannot be longer than 30 nights")
	}
	if q.Adults < 1 {
		return domain.NewValidationError("adults", "at least one adult is required")
	}
	if q.Children < 0 {
		return domain.NewValidationError("children", "children cannot be negative")
	}
	return nil
}

func nights(in, out time.Time) int {
	return int(dayOf(out).Sub(dayOf(in)).Hours() / 24)
}
