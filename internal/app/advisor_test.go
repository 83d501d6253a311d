package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"travel_planner/internal/app"
	"travel_planner/internal/domain"
)

type memCache struct {
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value any, ttlSeconds int) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.sets++
	return nil
}

func (c *memCache) Del(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func routeFixture() []domain.RouteCount {
	return []domain.RouteCount{
		{From: "Mumbai", To: "Goa", Count: 4},
		{From: "Mumbai", To: "Delhi", Count: 2},
		{From: "Delhi", To: "Goa", Count: 3},
		{From: "Chennai", To: "Bengaluru", Count: 1},
	}
}

func TestHasDirectRoute(t *testing.T) {
	adv := app.NewRouteAdvisor(&fakeRepo{routes: routeFixture()}, nil, time.Minute, zerolog.Nop())

	ok, err := adv.HasDirectRoute(context.Background(), "mumbai", "goa")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	ok, err = adv.HasDirectRoute(context.Background(), "Goa", "Mumbai")
	if err != nil || ok {
		t.Fatalf("reverse route should not count: ok=%v err=%v", ok, err)
	}
}

func TestAlternatives_OriginFirstThenInbound(t *testing.T) {
	adv := app.NewRouteAdvisor(&fakeRepo{routes: routeFixture()}, nil, time.Minute, zerolog.Nop())

	alts, err := adv.Alternatives(context.Background(), "Mumbai", "Goa")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := []domain.RouteOption{
		{From: "Mumbai", To: "Goa", Count: 4},
		{From: "Mumbai", To: "Delhi", Count: 2},
		{From: "Delhi", To: "Goa", Count: 3},
	}
	if len(alts) != len(want) {
		t.Fatalf("got %d alternatives: %+v", len(alts), alts)
	}
	for i := range want {
		if alts[i] != want[i] {
			t.Fatalf("alts[%d] = %+v, want %+v", i, alts[i], want[i])
		}
	}
}

func TestAlternatives_EmptyWhenUnserved(t *testing.T) {
	adv := app.NewRouteAdvisor(&fakeRepo{routes: routeFixture()}, nil, time.Minute, zerolog.Nop())

	alts, err := adv.Alternatives(context.Background(), "Pune", "Shimla")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if alts == nil || len(alts) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", alts)
	}
}

func TestAlternatives_CapTen(t *testing.T) {
	var routes []domain.RouteCount
	for i := 0; i < 15; i++ {
		routes = append(routes, domain.RouteCount{From: "Mumbai", To: fmt.Sprintf("City%02d", i), Count: 1})
	}
	adv := app.NewRouteAdvisor(&fakeRepo{routes: routes}, nil, time.Minute, zerolog.Nop())

	alts, err := adv.Alternatives(context.Background(), "Mumbai", "Goa")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(alts) != 10 {
		t.Fatalf("cap: got %d", len(alts))
	}
}

func TestAlternatives_RouteIndexCached(t *testing.T) {
	repo := &fakeRepo{routes: routeFixture()}
	cache := newMemCache()
	adv := app.NewRouteAdvisor(repo, cache, time.Minute, zerolog.Nop())

	if _, err := adv.Alternatives(context.Background(), "Mumbai", "Goa"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("index not written to cache: sets=%d", cache.sets)
	}

	// Second call is served from the cache even if the store goes away.
	repo.routeErr = domain.ErrConnection
	alts, err := adv.Alternatives(context.Background(), "Mumbai", "Goa")
	if err != nil || len(alts) == 0 {
		t.Fatalf("cached read failed: alts=%v err=%v", alts, err)
	}
}

func TestAlternatives_ConnectionFailureSurfaces(t *testing.T) {
	adv := app.NewRouteAdvisor(&fakeRepo{routeErr: domain.ErrConnection}, nil, time.Minute, zerolog.Nop())
	if _, err := adv.Alternatives(context.Background(), "Mumbai", "Goa"); err == nil {
		t.Fatal("expected error")
	}
}
