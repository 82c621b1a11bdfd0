package partner_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"sifnos_hotels/internal/adapters/partner"
	"sifnos_hotels/internal/domain"
)

func stayQuery() domain.PartnerQuery {
	return domain.PartnerQuery{
		CheckIn:  time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		Adults:   2,
		Children: 1,
	}
}

func okResults(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"results": []map[string]any{{"hotelId": 1.0, "hotelName": "Sea Breeze"}},
	})
}

func TestSearchHotels_ProxyFailsFallsBackToFunction(t *testing.T) {
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer proxy.Close()

	var gotAuth string
	var gotBody map[string]any
	fn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		okResults(w)
	}))
	defer fn.Close()

	cl, err := partner.New(partner.Config{
		ProxyURL: proxy.URL, FunctionURL: fn.URL, FunctionKey: "fn-key",
		CityID: 17246, RPS: 100,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := cl.SearchHotels(ctx, stayQuery())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0]["hotelName"] != "Sea Breeze" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if gotAuth != "Bearer fn-key" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	crit, _ := gotBody["criteria"].(map[string]any)
	if crit["checkInDate"] != "2025-07-01" || crit["checkOutDate"] != "2025-07-05" || crit["cityId"] != 17246.0 {
		t.Fatalf("unexpected criteria: %+v", crit)
	}
	occ, _ := crit["additional"].(map[string]any)["occupancy"].(map[string]any)
	if occ["numberOfAdult"] != 2.0 || occ["numberOfChildren"] != 1.0 {
		t.Fatalf("unexpected occupancy: %+v", occ)
	}
}

func TestSearchHotels_FunctionRetriesThenSuccess(t *testing.T) {
	var hits int32
	fn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		okResults(w)
	}))
	defer fn.Close()

	cl, err := partner.New(partner.Config{FunctionURL: fn.URL, FunctionKey: "k", RPS: 100})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := cl.SearchHotels(ctx, stayQuery()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("expected 2 calls, got %d", hits)
	}
}

func TestSearchHotels_MissingResultsIsError(t *testing.T) {
	fn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "invalid cityId"}})
	}))
	defer fn.Close()

	cl, _ := partner.New(partner.Config{FunctionURL: fn.URL, FunctionKey: "k", RPS: 100})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := cl.SearchHotels(ctx, stayQuery())
	if !errors.Is(err, partner.ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestSearchHotels_Unauthorized(t *testing.T) {
	fn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer fn.Close()

	cl, _ := partner.New(partner.Config{FunctionURL: fn.URL, FunctionKey: "bad", RPS: 100})
	_, err := cl.SearchHotels(context.Background(), stayQuery())
	if !errors.Is(err, partner.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestNew_RequiresEndpoint(t *testing.T) {
	if _, err := partner.New(partner.Config{}); err == nil {
		t.Fatalf("expected error without endpoints")
	}
	if _, err := partner.New(partner.Config{FunctionURL: "http://x"}); err == nil {
		t.Fatalf("expected error without function key")
	}
}
