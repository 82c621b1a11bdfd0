package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"sifnos_hotels/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	hotels    []domain.Hotel
	err       error
	calls     int
	lastQuery domain.SearchParams
}

func (f *fakeRepo) ListActiveHotels(ctx context.Context, p domain.SearchParams) ([]domain.Hotel, error) {
	f.calls++
	f.lastQuery = p
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Hotel
	for _, h := range f.hotels {
		if p.Location != nil && !strings.Contains(strings.ToLower(h.Location), strings.ToLower(*p.Location)) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeRepo) GetHotelBySlug(ctx context.Context, slug string) (domain.Hotel, error) {
	f.calls++
	for _, h := range f.hotels {
		if h.Slug == slug {
			return h, nil
		}
	}
	return domain.Hotel{}, domain.ErrNotFound
}

func (f *fakeRepo) ListActiveSlugs(ctx context.Context) ([]string, error) { return nil, nil }

type fakePartner struct {
	mu    sync.Mutex
	raws  []map[string]any
	err   error
	calls int
}

func (f *fakePartner) SearchHotels(ctx context.Context, q domain.PartnerQuery) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.raws, f.err
}

// fakeCache round-trips through JSON like the Redis adapter does.
type fakeCache struct {
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }
