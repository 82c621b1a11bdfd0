package app

import (
	"context"
	"strings"

	"sifnos_hotels/internal/domain"
)

const RecentlyViewedLimit = 10

// AddToRecentlyViewed moves id to the front, dropping any earlier occurrence,
// and caps the list at RecentlyViewedLimit.
func AddToRecentlyViewed(list []string, id string) []string {
	out := make([]string, 0, RecentlyViewedLimit)
	out = append(out, id)
	for _, v := range list {
		if len(out) == RecentlyViewedLimit {
			break
		}
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

type RecentlyViewedService struct {
	store domain.RecentlyViewedStore
}

func NewRecentlyViewedService(s domain.RecentlyViewedStore) *RecentlyViewedService {
	return &RecentlyViewedService{store: s}
}

func (s *RecentlyViewedService) Add(ctx context.Context, visitorID, hotelID string) ([]string, error) {
	visitorID, hotelID = strings.TrimSpace(visitorID), strings.TrimSpace(hotelID)
	if visitorID == "" {
		return nil, domain.NewValidationError("visitor_id", "visitor id is required")
	}
	if hotelID == "" {
		return nil, domain.NewValidationError("hotel_id", "hotel id is required")
	}
	return s.store.Push(ctx, visitorID, hotelID, RecentlyViewedLimit)
}

func (s *RecentlyViewedService) List(ctx context.Context, visitorID string) ([]string, error) {
	ids, err := s.store.List(ctx, strings.TrimSpace(visitorID))
	if err != nil {
		return nil, err
	}
	if len(ids) > RecentlyViewedLimit {
		ids = ids[:RecentlyViewedLimit]
	}
	return ids, nil
}
