package domain

import "time"

// SearchParams is a partial search request. Nil fields are unconstrained.
type SearchParams struct {
	CheckIn   *time.Time `json:"check_in,omitempty"`
	CheckOut  *time.Time `json:"check_out,omitempty"`
	Adults    *int       `json:"adults,omitempty"`
	Children  *int       `json:"children,omitempty"`
	Location  *string    `json:"location,omitempty"`
	Amenity   *string    `json:"amenity,omitempty"`
	HotelName *string    `json:"hotel_name,omitempty"`
}

// HasDates reports whether both stay dates are present.
func (p SearchParams) HasDates() bool { return p.CheckIn != nil && p.CheckOut != nil }

// Merge returns p with every non-nil field of o applied on top.
func (p SearchParams) Merge(o SearchParams) SearchParams {
	if o.CheckIn != nil {
		p.CheckIn = o.CheckIn
	}
	if o.CheckOut != nil {
		p.CheckOut = o.CheckOut
	}
	if o.Adults != nil {
		p.Adults = o.Adults
	}
	if o.Children != nil {
		p.Children = o.Children
	}
	if o.Location != nil {
		p.Location = o.Location
	}
	if o.Amenity != nil {
		p.Amenity = o.Amenity
	}
	if o.HotelName != nil {
		p.HotelName = o.HotelName
	}
	return p
}

type Source string

const (
	SourceLocal   Source = "local"
	SourcePartner Source = "agoda"
)

// UnifiedHotelResult is one entry of a merged search. Partner is set only
// when Source is SourcePartner.
type UnifiedHotelResult struct {
	Source    Source          `json:"source"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Location  string          `json:"location,omitempty"`
	Rating    float64         `json:"rating"`
	Price     float64         `json:"price"`
	Currency  string          `json:"currency,omitempty"`
	Amenities []string        `json:"amenities"`
	Photos    []string        `json:"photos"`
	Partner   *PartnerDetails `json:"partner,omitempty"`
}

type PartnerDetails struct {
	HotelID            int64   `json:"hotel_id"`
	StarRating         float64 `json:"star_rating"`
	ReviewScore        float64 `json:"review_score"`
	ReviewCount        int     `json:"review_count"`
	DailyRate          float64 `json:"daily_rate"`
	CrossedOutRate     float64 `json:"crossed_out_rate,omitempty"`
	DiscountPercentage float64 `json:"discount_percentage,omitempty"`
	ImageURL           string  `json:"image_url,omitempty"`
	LandingURL         string  `json:"landing_url,omitempty"`
	IncludeBreakfast   bool    `json:"include_breakfast"`
	FreeWifi           bool    `json:"free_wifi"`
}

// PartnerQuery is what the affiliate API needs for a live-priced search.
type PartnerQuery struct {
	CheckIn  time.Time
	CheckOut time.Time
	Adults   int
	Children int
}
