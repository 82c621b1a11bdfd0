package app

import (
	"sort"
	"strconv"
	"strings"

	"sifnos_hotels/internal/domain"
)

// PlaceholderPhoto is served for hotels without any photo.
const PlaceholderPhoto = "/placeholder.svg"

/********** partner field aliases **********/

var partnerAliases = map[string][]string{
	"id":        {"hotelId", "hotel_id", "id"},
	"name":      {"hotelName", "hotel_name", "name"},
	"stars":     {"starRating", "star_rating", "stars"},
	"score":     {"reviewScore", "review_score"},
	"reviews":   {"reviewCount", "review_count"},
	"currency":  {"currency"},
	"daily":     {"dailyRate", "daily_rate"},
	"crossed":   {"crossedOutRate", "crossed_out_rate"},
	"discount":  {"discountPercentage", "discount_percentage"},
	"image":     {"imageURL", "imageUrl", "image_url"},
	"landing":   {"landingURL", "landingUrl", "landing_url"},
	"breakfast": {"includeBreakfast", "include_breakfast"},
	"wifi":      {"freeWifi", "free_wifi"},
	"location":  {"address", "areaName", "cityName"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func firstStr(m map[string]any, key string) string {
	for _, p := range partnerAliases[key] {
		if s, ok := lookupAny(m, p).(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstFloat accepts float64/int/string values such as "8,5".
func firstFloat(m map[string]any, key string) (float64, bool) {
	for _, p := range partnerAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func firstBool(m map[string]any, key string) bool {
	for _, p := range partnerAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		case float64:
			return v != 0
		}
	}
	return false
}

/********** partner mapper **********/

// mapPartnerHotel converts one affiliate record. Records without an id are dropped.
func mapPartnerHotel(raw map[string]any) (domain.UnifiedHotelResult, bool) {
	idf, ok := firstFloat(raw, "id")
	if !ok || idf <= 0 {
		return domain.UnifiedHotelResult{}, false
	}
	id := int64(idf)

	stars, _ := firstFloat(raw, "stars")
	score, _ := firstFloat(raw, "score")
	reviews, _ := firstFloat(raw, "reviews")
	daily, _ := firstFloat(raw, "daily")
	crossed, _ := firstFloat(raw, "crossed")
	discount, _ := firstFloat(raw, "discount")

	d := &domain.PartnerDetails{
		HotelID:            id,
		StarRating:         stars,
		ReviewScore:        score,
		ReviewCount:        int(reviews),
		DailyRate:          daily,
		CrossedOutRate:     crossed,
		DiscountPercentage: discount,
		ImageURL:           firstStr(raw, "image"),
		LandingURL:         firstStr(raw, "landing"),
		IncludeBreakfast:   firstBool(raw, "breakfast"),
		FreeWifi:           firstBool(raw, "wifi"),
	}

	amenities := []string{}
	if d.FreeWifi {
		amenities = append(amenities, "Free WiFi")
	}
	if d.IncludeBreakfast {
		amenities = append(amenities, "Breakfast included")
	}
	photos := []string{}
	if d.ImageURL != "" {
		photos = append(photos, d.ImageURL)
	}

	return domain.UnifiedHotelResult{
		Source:    domain.SourcePartner,
		ID:        "agoda-" + strconv.FormatInt(id, 10),
		Name:      firstStr(raw, "name"),
		Location:  firstStr(raw, "location"),
		Rating:    stars,
		Price:     daily,
		Currency:  firstStr(raw, "currency"),
		Amenities: amenities,
		Photos:    photos,
		Partner:   d,
	}, true
}

func mapPartnerHotels(raws []map[string]any) []domain.UnifiedHotelResult {
	out := make([]domain.UnifiedHotelResult, 0, len(raws))
	for _, r := range raws {
		if h, ok := mapPartnerHotel(r); ok {
			out = append(out, h)
		}
	}
	return out
}

/********** local mappers **********/

// orderedPhotos puts the main photo first, keeps the rest in order, and falls
// back to the placeholder when there is nothing to show.
func orderedPhotos(ps []domain.Photo) []string {
	out := make([]string, 0, len(ps))
	main := -1
	for i, p := range ps {
		if p.IsMain && p.URL != "" {
			main = i
			out = append(out, p.URL)
			break
		}
	}
	for i, p := range ps {
		if i == main || p.URL == "" {
			continue
		}
		out = append(out, p.URL)
	}
	if len(out) == 0 {
		return []string{PlaceholderPhoto}
	}
	return out
}

// priceFrom is the cheapest room rate, else the hotel's own nightly price.
func priceFrom(h domain.Hotel) float64 {
	rates := make([]float64, 0, len(h.Rooms))
	for _, r := range h.Rooms {
		if r.PricePerNight > 0 {
			rates = append(rates, r.PricePerNight)
		}
	}
	if len(rates) > 0 {
		sort.Float64s(rates)
		return rates[0]
	}
	if h.PricePerNight != nil {
		return *h.PricePerNight
	}
	return 0
}

func mapLocalHotel(h domain.Hotel) domain.UnifiedHotelResult {
	amenities := h.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return domain.UnifiedHotelResult{
		Source:    domain.SourceLocal,
		ID:        strconv.FormatInt(h.ID, 10),
		Name:      h.Name,
		Location:  h.Location,
		Rating:    h.Rating,
		Price:     priceFrom(h),
		Currency:  "EUR",
		Amenities: amenities,
		Photos:    orderedPhotos(h.Photos),
	}
}

func mapHotelView(h domain.Hotel) domain.HotelView {
	hv := domain.HotelView{
		ID:          h.ID,
		Slug:        h.Slug,
		Name:        h.Name,
		Location:    h.Location,
		Description: h.Description,
		Rating:      h.Rating,
		PriceFrom:   priceFrom(h),
		Amenities:   h.Amenities,
		Photos:      orderedPhotos(h.Photos),
		Rooms:       h.Rooms,
	}
	if hv.Amenities == nil {
		hv.Amenities = []string{}
	}
	if hv.Rooms == nil {
		hv.Rooms = []domain.Room{}
	}
	return hv
}
