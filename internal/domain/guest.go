package domain

import "time"

type GuestBooking struct {
	BookingID  int64     `json:"booking_id"`
	GuestName  string    `json:"guest_name"`
	GuestEmail string    `json:"guest_email"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	RoomName   *string   `json:"room_name,omitempty"`
	Status     string    `json:"status"`
}

// HotelContext is the hotel branding and practical info shown in the guest portal.
type HotelContext struct {
	Slug           string  `json:"slug"`
	Name           string  `json:"name"`
	PrimaryColor   *string `json:"primary_color,omitempty"`
	SecondaryColor *string `json:"secondary_color,omitempty"`
	WifiName       *string `json:"wifi_name,omitempty"`
	WifiPassword   *string `json:"wifi_password,omitempty"`
	CheckInTime    *string `json:"check_in_time,omitempty"`
	CheckOutTime   *string `json:"check_out_time,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Email          *string `json:"email,omitempty"`
}

type GuestSession struct {
	Booking GuestBooking `json:"booking"`
	Hotel   HotelContext `json:"hotel"`
}

// Guest portal access opens the day before check-in and closes a week after check-out.
const (
	GuestAccessLeadDays  = 1
	GuestAccessGraceDays = 7
)
