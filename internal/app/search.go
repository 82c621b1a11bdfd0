package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"sifnos_hotels/internal/domain"
)

const (
	defaultAdults   = 2
	defaultChildren = 0
)

type SearchService struct {
	hotels   domain.HotelRepository
	partner  domain.PartnerClient // nil disables partner results
	cache    domain.Cache         // optional
	cacheTTL time.Duration
	now      func() time.Time
}

func NewSearchService(h domain.HotelRepository, p domain.PartnerClient, c domain.Cache, ttl time.Duration) *SearchService {
	return &SearchService{hotels: h, partner: p, cache: c, cacheTTL: ttl, now: time.Now}
}

// WithClock replaces the clock used for date validation.
func (s *SearchService) WithClock(now func() time.Time) *SearchService {
	s.now = now
	return s
}

// Search runs the local and partner fetchers concurrently and merges their
// results by rating. The partner fetcher only runs when both dates are set,
// and its date validation happens before either fetch starts.
func (s *SearchService) Search(ctx context.Context, p domain.SearchParams) ([]domain.UnifiedHotelResult, error) {
	var pq domain.PartnerQuery
	if p.HasDates() {
		pq = partnerQuery(p)
		if err := ValidatePartnerQuery(pq, s.now()); err != nil {
			return nil, err
		}
	}

	var local, partner []domain.UnifiedHotelResult
	var g errgroup.Group
	g.Go(func() error {
		local = s.FetchLocal(ctx, p)
		return nil
	})
	if p.HasDates() {
		g.Go(func() error {
			// pq already passed validation above, so no error comes back
			partner, _ = s.FetchPartner(ctx, pq)
			return nil
		})
	}
	_ = g.Wait()

	return MergeResults(local, partner), nil
}

// FetchLocal never fails: store errors are logged and yield an empty list.
func (s *SearchService) FetchLocal(ctx context.Context, p domain.SearchParams) []domain.UnifiedHotelResult {
	key := localCacheKey(p)
	var cached []domain.UnifiedHotelResult
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached
		}
	}

	hotels, err := s.hotels.ListActiveHotels(ctx, p)
	if err != nil {
		log.Error().Err(err).Str("location", deref(p.Location)).Msg("local hotel fetch failed")
		return []domain.UnifiedHotelResult{}
	}
	out := make([]domain.UnifiedHotelResult, 0, len(hotels))
	for _, h := range hotels {
		out = append(out, mapLocalHotel(h))
	}
	sortByRating(out)

	if s.cache != nil && s.cacheTTL > 0 {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out
}

// FetchPartner validates q and then queries the affiliate API. Only
// validation errors are returned; upstream failures degrade to an empty list.
func (s *SearchService) FetchPartner(ctx context.Context, q domain.PartnerQuery) ([]domain.UnifiedHotelResult, error) {
	if err := ValidatePartnerQuery(q, s.now()); err != nil {
		return nil, err
	}
	if s.partner == nil {
		return []domain.UnifiedHotelResult{}, nil
	}
	return s.fetchPartner(ctx, q), nil
}

func (s *SearchService) fetchPartner(ctx context.Context, q domain.PartnerQuery) []domain.UnifiedHotelResult {
	raws, err := s.partner.SearchHotels(ctx, q)
	if err != nil {
		log.Warn().Err(err).
			Time("check_in", q.CheckIn).
			Time("check_out", q.CheckOut).
			Msg("partner hotel search failed")
		return []domain.UnifiedHotelResult{}
	}
	return mapPartnerHotels(raws)
}

// MergeResults concatenates local then partner results and stable-sorts by
// rating, so equal ratings keep local entries first. Nothing is deduplicated.
func MergeResults(local, partner []domain.UnifiedHotelResult) []domain.UnifiedHotelResult {
	out := make([]domain.UnifiedHotelResult, 0, len(local)+len(partner))
	out = append(out, local...)
	out = append(out, partner...)
	sortByRating(out)
	return out
}

func sortByRating(rs []domain.UnifiedHotelResult) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Rating > rs[j].Rating })
}

func partnerQuery(p domain.SearchParams) domain.PartnerQuery {
	q := domain.PartnerQuery{
		CheckIn:  *p.CheckIn,
		CheckOut: *p.CheckOut,
		Adults:   defaultAdults,
		Children: defaultChildren,
	}
	if p.Adults != nil {
		q.Adults = *p.Adults
	}
	if p.Children != nil {
		q.Children = *p.Children
	}
	return q
}

func localCacheKey(p domain.SearchParams) string {
	sig := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(deref(p.Location))),
		strings.ToLower(strings.TrimSpace(deref(p.Amenity))),
		strings.ToLower(strings.TrimSpace(deref(p.HotelName))),
	}, "|")
	sum := sha1.Sum([]byte(sig))
	return fmt.Sprintf("search:local:%s", hex.EncodeToString(sum[:8]))
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
