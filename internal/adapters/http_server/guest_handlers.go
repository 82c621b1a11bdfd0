package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"sifnos_hotels/internal/domain"
)

// Machine-readable reasons for guest portal denials.
const (
	reasonMissingToken = "missing-token"
	reasonNotFound     = "not-found"
	reasonExpired      = "expired"
)

type guestValidateRequest struct {
	GuestToken string `json:"guestToken" validate:"max=128"`
}

type guestValidateResponse struct {
	Valid   bool                `json:"valid"`
	Booking domain.GuestBooking `json:"booking"`
	Hotel   domain.HotelContext `json:"hotel"`
}

func (h *Handlers) validateGuest(w http.ResponseWriter, r *http.Request) {
	var req guestValidateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		// an unreadable request carries no usable token
		req.GuestToken = ""
	}
	if strings.TrimSpace(req.GuestToken) != "" && validateStruct(req) != nil {
		// no stored token is that long
		denyGuest(w, http.StatusNotFound, reasonNotFound, "This guest link does not match any booking.")
		return
	}

	gs, err := h.Guests.Validate(r.Context(), req.GuestToken)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, guestValidateResponse{Valid: true, Booking: gs.Booking, Hotel: gs.Hotel})
	case errors.Is(err, domain.ErrMissingToken):
		denyGuest(w, http.StatusBadRequest, reasonMissingToken, "A guest token is required.")
	case errors.Is(err, domain.ErrNotFound):
		denyGuest(w, http.StatusNotFound, reasonNotFound, "This guest link does not match any booking.")
	case errors.Is(err, domain.ErrTokenExpired):
		denyGuest(w, http.StatusForbidden, reasonExpired, "This guest link is only valid from the day before check-in until a week after check-out.")
	default:
		log.Error().Err(err).Msg("guest token lookup failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func denyGuest(w http.ResponseWriter, status int, reason, detail string) {
	writeProblemJSON(w, problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Reason: reason,
	})
}
