package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sifnos_hotels/internal/domain"
)

type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetHotel(ctx context.Context, slug string) (domain.HotelView, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return domain.HotelView{}, domain.ErrNotFound
	}
	key := fmt.Sprintf("hotel:%s", slug)
	var hv domain.HotelView
	if ok, _ := s.cache.Get(ctx, key, &hv); ok {
		return hv, nil
	}
	h, err := s.repo.GetHotelBySlug(ctx, slug)
	if err != nil {
		return domain.HotelView{}, err
	}
	hv = mapHotelView(h)
	_ = s.cache.Set(ctx, key, hv, int(s.cacheTTL.Seconds()))
	return hv, nil
}
