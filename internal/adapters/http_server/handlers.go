// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"sifnos_hotels/internal/app"
	"sifnos_hotels/internal/domain"
)

type Handlers struct {
	Query     *app.QueryService
	Search    *app.SearchService
	Guests    *app.GuestService
	Sessions  *app.BookingSessions
	Recent    *app.RecentlyViewedService
	Concierge *app.Concierge
}

var validate = newValidator()

// newValidator adds stay_date: any date format the search extractor accepts.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("stay_date", func(fl validator.FieldLevel) bool {
		_, ok := app.ParseDate(fl.Field().String())
		return ok
	})
	return v
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Reason string `json:"reason,omitempty"`
	Field  string `json:"field,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/hotels/{slug}", h.getHotel)
		r.Get("/search", h.search)
		r.Post("/concierge", h.concierge)
		r.Post("/guest/validate", h.validateGuest)
		r.Post("/booking-sessions", h.startBookingSession)
		r.Post("/booking-sessions/{id}/complete", h.completeBookingSession)
		r.Get("/visitors/{id}/recently-viewed", h.listRecentlyViewed)
		r.Post("/visitors/{id}/recently-viewed", h.addRecentlyViewed)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemJSON(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemJSON(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeValidation maps a *domain.ValidationError to a 400 problem.
func writeValidation(w http.ResponseWriter, err error) bool {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeProblemJSON(w, problem{
		Type: "about:blank", Title: "Invalid request", Status: http.StatusBadRequest,
		Detail: ve.Message, Field: ve.Field,
	})
	return true
}

func badRequest(w http.ResponseWriter, err error) {
	if !writeValidation(w, err) {
		writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// decodeBody decodes a JSON body into dst and runs struct validation.
// An empty body decodes to the zero value.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return domain.NewValidationError("body", "malformed JSON body")
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.NewValidationError(fe.Field(), "failed "+fe.Tag()+" validation")
	}
	return err
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCachedJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write cached body")
	}
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hv, err := h.Query.GetHotel(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("slug", chi.URLParam(r, "slug")).Msg("get hotel failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeCachedJSON(w, r, hv)
}
