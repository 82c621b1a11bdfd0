package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"sifnos_hotels/internal/domain"
)

const conciergeTopN = 3

type ConciergeReply struct {
	Reply  string                      `json:"reply"`
	Params domain.SearchParams         `json:"params"`
	Hotels []domain.UnifiedHotelResult `json:"hotels"`
}

// Concierge answers free-text questions with hotels from the unified search.
// Without a generator it answers from a template.
type Concierge struct {
	search *SearchService
	gen    domain.ReplyGenerator
}

func NewConcierge(s *SearchService, g domain.ReplyGenerator) *Concierge {
	return &Concierge{search: s, gen: g}
}

func (c *Concierge) Ask(ctx context.Context, message string) (ConciergeReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return ConciergeReply{}, domain.NewValidationError("message", "message is required")
	}
	params := ExtractSearchParams(message)

	var note string
	hotels, err := c.search.Search(ctx, params)
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		// answer without the unusable dates instead of refusing
		note = ve.Message
		params.CheckIn, params.CheckOut = nil, nil
		hotels, err = c.search.Search(ctx, params)
	}
	if err != nil {
		return ConciergeReply{}, err
	}
	if len(hotels) > conciergeTopN {
		hotels = hotels[:conciergeTopN]
	}

	reply := templateReply(params, hotels, note)
	if c.gen != nil {
		if txt, gerr := c.gen.Generate(ctx, conciergePrompt(message, hotels, note)); gerr != nil {
			log.Warn().Err(gerr).Msg("concierge generation failed, using template")
		} else if strings.TrimSpace(txt) != "" {
			reply = strings.TrimSpace(txt)
		}
	}
	return ConciergeReply{Reply: reply, Params: params, Hotels: hotels}, nil
}

func conciergePrompt(message string, hotels []domain.UnifiedHotelResult, note string) string {
	var b strings.Builder
	b.WriteString("You are the concierge of a hotel booking site for the Greek island of Sifnos. ")
	b.WriteString("Answer the guest in at most four sentences, only recommending hotels from the list.\n\n")
	fmt.Fprintf(&b, "Guest: %s\n\nHotels:\n", message)
	for _, h := range hotels {
		fmt.Fprintf(&b, "- %s (%s), rating %.1f, from %.0f %s\n", h.Name, locationOr(h.Location), h.Rating, h.Price, currencyOr(h.Currency))
	}
	if len(hotels) == 0 {
		b.WriteString("- none matched\n")
	}
	if note != "" {
		fmt.Fprintf(&b, "\nThe requested dates could not be used: %s\n", note)
	}
	return b.String()
}

func templateReply(p domain.SearchParams, hotels []domain.UnifiedHotelResult, note string) string {
	var b strings.Builder
	if note != "" {
		fmt.Fprintf(&b, "I could not use those dates (%s). ", note)
	}
	if len(hotels) == 0 {
		if p.Location != nil {
			fmt.Fprintf(&b, "I could not find hotels in %s right now. Try another village or different dates.", *p.Location)
		} else {
			b.WriteString("I could not find matching hotels right now. Try another village or different dates.")
		}
		return b.String()
	}
	names := make([]string, 0, len(hotels))
	for _, h := range hotels {
		names = append(names, fmt.Sprintf("%s (%.1f★)", h.Name, h.Rating))
	}
	where := "on Sifnos"
	if p.Location != nil {
		where = "in " + *p.Location
	}
	fmt.Fprintf(&b, "Top picks %s: %s.", where, strings.Join(names, ", "))
	return b.String()
}

func locationOr(s string) string {
	if s == "" {
		return "Sifnos"
	}
	return s
}

func currencyOr(s string) string {
	if s == "" {
		return "EUR"
	}
	return s
}
