package mysql

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"

	"sifnos_hotels/internal/domain"
)

var dialect = goqu.Dialect("mysql")

var hotelColumns = []any{
	"h.id", "h.slug", "h.name", "h.location", "h.description",
	"h.rating", "h.price_per_night", "h.primary_color", "h.secondary_color",
}

// likeContains builds a case-insensitive substring pattern with LIKE
// metacharacters escaped (MySQL's default escape is backslash).
func likeContains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func activeHotels() *goqu.SelectDataset {
	return dialect.From(goqu.T("hotels").As("h")).
		Select(hotelColumns...).
		Where(goqu.I("h.active").IsTrue())
}

// searchHotelsQuery applies the optional location, name and amenity filters.
func searchHotelsQuery(p domain.SearchParams) (string, []any, error) {
	ds := activeHotels()
	if loc := trimmed(p.Location); loc != "" {
		ds = ds.Where(goqu.L("LOWER(h.location) LIKE ?", likeContains(loc)))
	}
	if name := trimmed(p.HotelName); name != "" {
		ds = ds.Where(goqu.L("LOWER(h.name) LIKE ?", likeContains(name)))
	}
	if am := trimmed(p.Amenity); am != "" {
		sub := dialect.From("hotel_amenities").
			Select("hotel_id").
			Where(goqu.L("LOWER(amenity) LIKE ?", likeContains(am)))
		ds = ds.Where(goqu.I("h.id").In(sub))
	}
	return ds.Order(goqu.I("h.rating").Desc(), goqu.I("h.id").Asc()).Prepared(true).ToSQL()
}

func hotelBySlugQuery(slug string) (string, []any, error) {
	return activeHotels().Where(goqu.I("h.slug").Eq(slug)).Limit(1).Prepared(true).ToSQL()
}

func amenitiesQuery(ids []int64) (string, []any, error) {
	return dialect.From("hotel_amenities").
		Select("hotel_id", "amenity").
		Where(goqu.C("hotel_id").In(ids)).
		Order(goqu.C("hotel_id").Asc(), goqu.C("amenity").Asc()).
		Prepared(true).ToSQL()
}

func photosQuery(ids []int64) (string, []any, error) {
	return dialect.From("hotel_photos").
		Select("hotel_id", "url", "is_main").
		Where(goqu.C("hotel_id").In(ids)).
		Order(goqu.C("hotel_id").Asc(), goqu.C("sort_order").Asc(), goqu.C("id").Asc()).
		Prepared(true).ToSQL()
}

func roomsQuery(ids []int64) (string, []any, error) {
	return dialect.From("rooms").
		Select("id", "hotel_id", "name", "price_per_night", "max_guests").
		Where(goqu.C("hotel_id").In(ids)).
		Order(goqu.C("hotel_id").Asc(), goqu.C("price_per_night").Asc(), goqu.C("id").Asc()).
		Prepared(true).ToSQL()
}
