package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sifnos_hotels/internal/app"
	"sifnos_hotels/internal/domain"
)

func TestGetHotel_CacheMissThenHit(t *testing.T) {
	repo := &fakeRepo{hotels: []domain.Hotel{{
		ID: 42, Slug: "verina-suites", Name: "Verina Suites", Location: "Platis Gialos", Rating: 4.7,
		Photos: []domain.Photo{{URL: "a.jpg"}, {URL: "main.jpg", IsMain: true}},
		Rooms:  []domain.Room{{ID: 1, Name: "Double", PricePerNight: 180}, {ID: 2, Name: "Suite", PricePerNight: 260}},
	}}}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, 10*time.Minute)

	// Miss (first time, populates cache)
	h, err := q.GetHotel(context.Background(), "Verina-Suites")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h.ID != 42 || h.Name != "Verina Suites" || h.PriceFrom != 180 {
		t.Fatalf("unexpected hotel: %+v", h)
	}
	if len(h.Photos) != 2 || h.Photos[0] != "main.jpg" {
		t.Fatalf("main photo should come first: %v", h.Photos)
	}

	// Mutate repo to ensure second read indeed comes from cache
	repo.hotels[0].Name = "SHOULD NOT SEE THIS"

	h2, err := q.GetHotel(context.Background(), "verina-suites")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h2.Name != "Verina Suites" {
		t.Fatalf("expected cached name, got %s", h2.Name)
	}
	if repo.calls != 1 {
		t.Fatalf("expected one repo call, got %d", repo.calls)
	}
}

func TestGetHotel_NotFound(t *testing.T) {
	q := app.NewQueryService(&fakeRepo{}, &fakeCache{}, time.Minute)
	if _, err := q.GetHotel(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := q.GetHotel(context.Background(), "  "); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank slug, got %v", err)
	}
}
