package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"travel_planner/internal/domain"
)

const (
	routeIndexKey   = "routes:index"
	maxAlternatives = 10
)

// RouteAdvisor proposes alternative origins/destinations from the same
// flight inventory when a requested route has no direct coverage. It is a
// pure read over the store's route index; the index itself is served
// cache-aside with a short TTL since it only changes on inventory loads.
type RouteAdvisor struct {
	repo  domain.TravelRepository
	cache domain.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

func NewRouteAdvisor(repo domain.TravelRepository, cache domain.Cache, ttl time.Duration, log zerolog.Logger) *RouteAdvisor {
	return &RouteAdvisor{repo: repo, cache: cache, ttl: ttl, log: log}
}

func (a *RouteAdvisor) routeIndex(ctx context.Context) ([]domain.RouteCount, error) {
	var idx []domain.RouteCount
	if a.cache != nil {
		if ok, _ := a.cache.Get(ctx, routeIndexKey, &idx); ok {
			return idx, nil
		}
	}
	idx, err := a.repo.RouteCounts(ctx)
	if err != nil {
		return nil, err
	}
	if a.cache != nil && len(idx) > 0 {
		_ = a.cache.Set(ctx, routeIndexKey, idx, int(a.ttl.Seconds()))
	}
	return idx, nil
}

// HasDirectRoute reports whether any flight serves origin → destination.
// Used by the presentation layer for pre-flight checks before planning.
func (a *RouteAdvisor) HasDirectRoute(ctx context.Context, origin, destination string) (bool, error) {
	idx, err := a.routeIndex(ctx)
	if err != nil {
		return false, err
	}
	for _, rc := range idx {
		if strings.EqualFold(rc.From, origin) && strings.EqualFold(rc.To, destination) {
			return true, nil
		}
	}
	return false, nil
}

// Alternatives lists served routes departing origin, then routes arriving at
// destination from any other origin, capped at 10. An inventory with no
// matching routes yields an empty list, not an error.
func (a *RouteAdvisor) Alternatives(ctx context.Context, origin, destination string) ([]domain.RouteOption, error) {
	idx, err := a.routeIndex(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RouteOption, 0, maxAlternatives)
	for _, rc := range idx {
		if strings.EqualFold(rc.From, origin) {
			out = append(out, domain.RouteOption{From: rc.From, To: rc.To, Count: rc.Count})
		}
	}
	for _, rc := range idx {
		if strings.EqualFold(rc.To, destination) && !strings.EqualFold(rc.From, origin) {
			out = append(out, domain.RouteOption{From: rc.From, To: rc.To, Count: rc.Count})
		}
	}
	if len(out) > maxAlternatives {
		out = out[:maxAlternatives]
	}
	return out, nil
}
