package domain

type Hotel struct {
	ID             int64
	Slug           string
	Name           string
	Location       string
	Description    *string
	Rating         float64
	PricePerNight  *float64
	PrimaryColor   *string
	SecondaryColor *string
	Amenities      []string
	Photos         []Photo
	Rooms          []Room
}

type Photo struct {
	URL    string
	IsMain bool
}

type Room struct {
	ID            int64
	HotelID       int64
	Name          string
	PricePerNight float64
	MaxGuests     int
}

// HotelView is the read model served by the hotel detail endpoint.
type HotelView struct {
	ID          int64    `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Description *string  `json:"description,omitempty"`
	Rating      float64  `json:"rating"`
	PriceFrom   float64  `json:"price_from"`
	Amenities   []string `json:"amenities"`
	Photos      []string `json:"photos"`
	Rooms       []Room   `json:"rooms"`
}
