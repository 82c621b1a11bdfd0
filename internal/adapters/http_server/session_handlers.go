package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"sifnos_hotels/internal/adapters/observability"
	"sifnos_hotels/internal/domain"
)

// ---- booking sessions ----

type startSessionRequest struct {
	SessionID string              `json:"sessionId" validate:"omitempty,max=64"`
	Draft     domain.BookingDraft `json:"draft"`
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
}

func (h *Handlers) startBookingSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if req.Draft.BookingType == "" {
		writeValidation(w, domain.NewValidationError("draft.booking_type", "booking type is required"))
		return
	}
	id := h.Sessions.Start(req.SessionID, req.Draft)
	observability.ObserveBookingSession("started")
	writeJSON(w, http.StatusAccepted, sessionResponse{SessionID: id, Status: "tracking"})
}

type completeSessionRequest struct {
	BookingID *int64 `json:"bookingId" validate:"omitempty,gt=0"`
}

func (h *Handlers) completeBookingSession(w http.ResponseWriter, r *http.Request) {
	var req completeSessionRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	err := h.Sessions.Complete(r.Context(), id, req.BookingID)
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "booking session not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("session_id", id).Msg("complete booking session failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	observability.ObserveBookingSession("completed")
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, Status: "completed"})
}

// ---- recently viewed ----

type recentRequest struct {
	HotelID string `json:"hotelId" validate:"required,max=64"`
}

type recentResponse struct {
	Items []string `json:"items"`
}

func (h *Handlers) listRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Recent.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Warn().Err(err).Msg("recently viewed lookup failed")
		ids = nil
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, recentResponse{Items: ids})
}

func (h *Handlers) addRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	var req recentRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	ids, err := h.Recent.Add(r.Context(), chi.URLParam(r, "id"), req.HotelID)
	if err != nil {
		if writeValidation(w, err) {
			return
		}
		log.Error().Err(err).Msg("recently viewed push failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeJSON(w, http.StatusOK, recentResponse{Items: ids})
}
