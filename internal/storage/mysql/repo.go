package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sifnos_hotels/internal/domain"
)

func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valDate(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC().Format("2006-01-02")
}
func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// -----------------------------------------------------------------------------
// hotels
// -----------------------------------------------------------------------------

func (r *Repo) ListActiveHotels(ctx context.Context, p domain.SearchParams) ([]domain.Hotel, error) {
	q, args, err := searchHotelsQuery(p)
	if err != nil {
		return nil, err
	}
	hotels, err := r.queryHotels(ctx, q, args)
	if err != nil {
		return nil, err
	}
	if err := r.loadRelated(ctx, hotels); err != nil {
		return nil, err
	}
	return hotels, nil
}

func (r *Repo) GetHotelBySlug(ctx context.Context, slug string) (domain.Hotel, error) {
	q, args, err := hotelBySlugQuery(slug)
	if err != nil {
		return domain.Hotel{}, err
	}
	hotels, err := r.queryHotels(ctx, q, args)
	if err != nil {
		return domain.Hotel{}, err
	}
	if len(hotels) == 0 {
		return domain.Hotel{}, domain.ErrNotFound
	}
	if err := r.loadRelated(ctx, hotels); err != nil {
		return domain.Hotel{}, err
	}
	return hotels[0], nil
}

func (r *Repo) ListActiveSlugs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, listActiveSlugsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) queryHotels(ctx context.Context, q string, args []any) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		var desc, primary, secondary sql.NullString
		var price sql.NullFloat64
		if err := rows.Scan(
			&h.ID, &h.Slug, &h.Name, &h.Location, &desc,
			&h.Rating, &price, &primary, &secondary,
		); err != nil {
			return nil, err
		}
		h.Description = strPtr(desc)
		h.PrimaryColor = strPtr(primary)
		h.SecondaryColor = strPtr(secondary)
		if price.Valid {
			f := price.Float64
			h.PricePerNight = &f
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// loadRelated fills amenities, photos and rooms with one query each.
func (r *Repo) loadRelated(ctx context.Context, hotels []domain.Hotel) error {
	if len(hotels) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(hotels))
	idx := make(map[int64]int, len(hotels))
	for i, h := range hotels {
		ids = append(ids, h.ID)
		idx[h.ID] = i
	}

	q, args, err := amenitiesQuery(ids)
	if err != nil {
		return err
	}
	if err := r.each(ctx, q, args, func(rows *sql.Rows) error {
		var hid int64
		var a string
		if err := rows.Scan(&hid, &a); err != nil {
			return err
		}
		hotels[idx[hid]].Amenities = append(hotels[idx[hid]].Amenities, a)
		return nil
	}); err != nil {
		return err
	}

	q, args, err = photosQuery(ids)
	if err != nil {
		return err
	}
	if err := r.each(ctx, q, args, func(rows *sql.Rows) error {
		var hid int64
		var p domain.Photo
		if err := rows.Scan(&hid, &p.URL, &p.IsMain); err != nil {
			return err
		}
		hotels[idx[hid]].Photos = append(hotels[idx[hid]].Photos, p)
		return nil
	}); err != nil {
		return err
	}

	q, args, err = roomsQuery(ids)
	if err != nil {
		return err
	}
	return r.each(ctx, q, args, func(rows *sql.Rows) error {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.Name, &rm.PricePerNight, &rm.MaxGuests); err != nil {
			return err
		}
		hotels[idx[rm.HotelID]].Rooms = append(hotels[idx[rm.HotelID]].Rooms, rm)
		return nil
	})
}

func (r *Repo) each(ctx context.Context, q string, args []any, fn func(*sql.Rows) error) error {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// -----------------------------------------------------------------------------
// guest portal
// -----------------------------------------------------------------------------

func (r *Repo) FindByToken(ctx context.Context, token string) (domain.GuestSession, error) {
	var gs domain.GuestSession
	var room sql.NullString
	var primary, secondary, wifiName, wifiPass, inTime, outTime, phone, email sql.NullString

	err := r.db.QueryRowContext(ctx, findGuestByTokenSQL, token).Scan(
		&gs.Booking.BookingID,
		&gs.Booking.GuestName,
		&gs.Booking.GuestEmail,
		&gs.Booking.CheckIn,
		&gs.Booking.CheckOut,
		&gs.Booking.Status,
		&room,
		&gs.Hotel.Slug,
		&gs.Hotel.Name,
		&primary, &secondary,
		&wifiName, &wifiPass,
		&inTime, &outTime,
		&phone, &email,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GuestSession{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.GuestSession{}, err
	}

	gs.Booking.RoomName = strPtr(room)
	gs.Hotel.PrimaryColor = strPtr(primary)
	gs.Hotel.SecondaryColor = strPtr(secondary)
	gs.Hotel.WifiName = strPtr(wifiName)
	gs.Hotel.WifiPassword = strPtr(wifiPass)
	gs.Hotel.CheckInTime = strPtr(inTime)
	gs.Hotel.CheckOutTime = strPtr(outTime)
	gs.Hotel.Phone = strPtr(phone)
	gs.Hotel.Email = strPtr(email)
	return gs, nil
}

// -----------------------------------------------------------------------------
// abandoned bookings
// -----------------------------------------------------------------------------

func (r *Repo) UpsertAbandoned(ctx context.Context, rec domain.AbandonedBookingRecord) error {
	d := rec.Draft
	status := rec.Status
	if status == "" {
		status = domain.StatusAbandoned
	}
	_, err := r.db.ExecContext(ctx, upsertAbandonedSQL,
		rec.SessionID,
		d.BookingType,
		valInt64(d.HotelID),
		valInt64(d.RoomID),
		valDate(d.CheckIn),
		valDate(d.CheckOut),
		valInt(d.Guests),
		valF64(d.PriceEstimate),
		valJSON(d.Payload),
		string(status),
		rec.AbandonedAt.UTC(),
	)
	return err
}

// MarkConverted returns domain.ErrNotFound when no abandoned record exists.
func (r *Repo) MarkConverted(ctx context.Context, sessionID string, bookingID *int64) error {
	res, err := r.db.ExecContext(ctx, markConvertedSQL, valInt64(bookingID), sessionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	// MySQL reports 0 affected rows for an unchanged row too
	var one int
	err = r.db.QueryRowContext(ctx, abandonedExistsSQL, sessionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}
