package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"sifnos_hotels/internal/adapters/observability"
	"sifnos_hotels/internal/app"
	"sifnos_hotels/internal/domain"
)

type searchQuery struct {
	Q        string `validate:"max=500"`
	CheckIn  string `validate:"omitempty,stay_date"`
	CheckOut string `validate:"omitempty,stay_date"`
	Adults   string `validate:"omitempty,number"`
	Children string `validate:"omitempty,number"`
	Location string `validate:"max=120"`
	Amenity  string `validate:"max=60"`
	Name     string `validate:"max=120"`
}

type searchResponse struct {
	Items  []domain.UnifiedHotelResult `json:"items"`
	Count  int                         `json:"count"`
	Params domain.SearchParams         `json:"params"`
}

// searchParams extracts from q first; explicit parameters win.
func searchParams(sq searchQuery) domain.SearchParams {
	p := app.ExtractSearchParams(sq.Q)

	var o domain.SearchParams
	if t, ok := app.ParseDate(sq.CheckIn); ok {
		o.CheckIn = &t
	}
	if t, ok := app.ParseDate(sq.CheckOut); ok {
		o.CheckOut = &t
	}
	if n, err := strconv.Atoi(sq.Adults); err == nil {
		o.Adults = &n
	}
	if n, err := strconv.Atoi(sq.Children); err == nil {
		o.Children = &n
	}
	o.Location = optStr(sq.Location)
	o.Amenity = optStr(sq.Amenity)
	o.HotelName = optStr(sq.Name)
	return p.Merge(o)
}

func optStr(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	sq := searchQuery{
		Q:        qs.Get("q"),
		CheckIn:  qs.Get("check_in"),
		CheckOut: qs.Get("check_out"),
		Adults:   qs.Get("adults"),
		Children: qs.Get("children"),
		Location: qs.Get("location"),
		Amenity:  qs.Get("amenity"),
		Name:     qs.Get("name"),
	}
	if err := validateStruct(&sq); err != nil {
		badRequest(w, err)
		return
	}

	params := searchParams(sq)
	items, err := h.Search.Search(r.Context(), params)
	if err != nil {
		if writeValidation(w, err) {
			return
		}
		log.Error().Err(err).Msg("search failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	countBySource(items)
	writeJSON(w, http.StatusOK, searchResponse{Items: items, Count: len(items), Params: params})
}

func countBySource(items []domain.UnifiedHotelResult) {
	var local, partner int
	for _, it := range items {
		if it.Source == domain.SourceLocal {
			local++
		} else {
			partner++
		}
	}
	observability.ObserveSearchResults(string(domain.SourceLocal), local)
	observability.ObserveSearchResults(string(domain.SourcePartner), partner)
}

type conciergeRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

func (h *Handlers) concierge(w http.ResponseWriter, r *http.Request) {
	var req conciergeRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	out, err := h.Concierge.Ask(r.Context(), req.Message)
	if err != nil {
		if writeValidation(w, err) {
			return
		}
		log.Error().Err(err).Msg("concierge failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeJSON(w, http.StatusOK, out)
}
