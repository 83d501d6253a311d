package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "travel_planner/internal/adapters/http_server"
	"travel_planner/internal/domain"
)

type fakePlanner struct {
	answer string
	err    error
	asked  []string
}

func (p *fakePlanner) PlanTrip(ctx context.Context, sess *domain.OrchestrationSession, q string) (string, error) {
	p.asked = append(p.asked, q)
	if p.err != nil {
		return "", p.err
	}
	sess.Append(domain.RoleUser, q)
	sess.Append(domain.RoleAssistant, p.answer)
	return p.answer, nil
}

type fakeAdvisor struct {
	direct bool
	alts   []domain.RouteOption
	err    error
}

func (a *fakeAdvisor) HasDirectRoute(ctx context.Context, from, to string) (bool, error) {
	return a.direct, a.err
}

func (a *fakeAdvisor) Alternatives(ctx context.Context, from, to string) ([]domain.RouteOption, error) {
	return a.alts, a.err
}

type fakeTripStore struct {
	saved []domain.TripRecord
	err   error
}

func (s *fakeTripStore) SaveTrip(ctx context.Context, t domain.TripRecord) error {
	s.saved = append(s.saved, t)
	return s.err
}

func newTestServer(h *httpserver.Handlers) *httptest.Server {
	srv := httpserver.New(time.Minute)
	srv.MountHandlers(h)
	return httptest.NewServer(srv.Mux())
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	res, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return res
}

func TestPlanTrip_OK(t *testing.T) {
	planner := &fakePlanner{answer: "Here is your Goa plan."}
	store := &fakeTripStore{}
	ts := newTestServer(&httpserver.Handlers{
		Planner:  planner,
		Advisor:  &fakeAdvisor{},
		Trips:    store,
		Sessions: httpserver.NewSessionRegistry(),
	})
	defer ts.Close()

	res := postJSON(t, ts.URL+"/v1/trips/plan", `{
		"session_id": "u1",
		"query": "Plan a Goa trip",
		"source_city": "Mumbai",
		"destination_city": "Goa",
		"start_date": "2026-01-02",
		"end_date": "2026-01-05",
		"total_budget": 50000
	}`)
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", res.StatusCode)
	}
	var out struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Answer != "Here is your Goa plan." {
		t.Fatalf("answer: %q", out.Answer)
	}

	if len(store.saved) != 1 {
		t.Fatalf("trip not persisted: %+v", store.saved)
	}
	rec := store.saved[0]
	if rec.UserID != "u1" || rec.DurationDays != 4 || rec.TotalBudget == nil || *rec.TotalBudget != 50000 {
		t.Fatalf("record: %+v", rec)
	}
}

func TestPlanTrip_MissingQuery(t *testing.T) {
	ts := newTestServer(&httpserver.Handlers{
		Planner:  &fakePlanner{},
		Advisor:  &fakeAdvisor{},
		Sessions: httpserver.NewSessionRegistry(),
	})
	defer ts.Close()

	res := postJSON(t, ts.URL+"/v1/trips/plan", `{"session_id": "u1"}`)
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d", res.StatusCode)
	}
}

func TestPlanTrip_PlannerFailureIs502(t *testing.T) {
	ts := newTestServer(&httpserver.Handlers{
		Planner:  &fakePlanner{err: context.DeadlineExceeded},
		Advisor:  &fakeAdvisor{},
		Sessions: httpserver.NewSessionRegistry(),
	})
	defer ts.Close()

	res := postJSON(t, ts.URL+"/v1/trips/plan", `{"query": "hi"}`)
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadGateway {
		t.Fatalf("status: %d", res.StatusCode)
	}
}

func TestPlanTrip_StorageFailureDoesNotCostTheAnswer(t *testing.T) {
	store := &fakeTripStore{err: domain.ErrConnection}
	ts := newTestServer(&httpserver.Handlers{
		Planner:  &fakePlanner{answer: "plan"},
		Advisor:  &fakeAdvisor{},
		Trips:    store,
		Sessions: httpserver.NewSessionRegistry(),
	})
	defer ts.Close()

	res := postJSON(t, ts.URL+"/v1/trips/plan", `{
		"query": "hi", "source_city": "Mumbai", "destination_city": "Goa",
		"start_date": "2026-01-02", "end_date": "2026-01-03"
	}`)
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", res.StatusCode)
	}
}

func TestPlanTrip_SessionReuse(t *testing.T) {
	planner := &fakePlanner{answer: "ok"}
	reg := httpserver.NewSessionRegistry()
	ts := newTestServer(&httpserver.Handlers{
		Planner:  planner,
		Advisor:  &fakeAdvisor{},
		Sessions: reg,
	})
	defer ts.Close()

	for i := 0; i < 2; i++ {
		res := postJSON(t, ts.URL+"/v1/trips/plan", `{"session_id": "u1", "query": "hi"}`)
		res.Body.Close()
	}
	if got := len(reg.Get("u1").Turns); got != 4 {
		t.Fatalf("session turns = %d, want 4", got)
	}
}

func TestRouteAlternatives(t *testing.T) {
	adv := &fakeAdvisor{
		direct: false,
		alts:   []domain.RouteOption{{From: "Mumbai", To: "Delhi", Count: 2}},
	}
	ts := newTestServer(&httpserver.Handlers{
		Planner:  &fakePlanner{},
		Advisor:  adv,
		Sessions: httpserver.NewSessionRegistry(),
	})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/routes/alternatives?from=Mumbai&to=Shimla")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", res.StatusCode)
	}

	var out struct {
		Direct       bool                 `json:"direct"`
		Alternatives []domain.RouteOption `json:"alternatives"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Direct || len(out.Alternatives) != 1 {
		t.Fatalf("out: %+v", out)
	}
}

func TestRouteAlternatives_EmptyListNotNull(t *testing.T) {
	ts := newTestServer(&httpserver.Handlers{
		Planner:  &fakePlanner{},
		Advisor:  &fakeAdvisor{},
		Sessions: httpserver.NewSessionRegistry(),
	})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/routes/alternatives?from=A&to=B")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer res.Body.Close()

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw["alternatives"]) != "[]" {
		t.Fatalf("alternatives = %s, want []", raw["alternatives"])
	}
}

func TestRouteAlternatives_StoreDownIs503(t *testing.T) {
	ts := newTestServer(&httpserver.Handlers{
		Planner:  &fakePlanner{},
		Advisor:  &fakeAdvisor{err: domain.ErrConnection},
		Sessions: httpserver.NewSessionRegistry(),
	})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/routes/alternatives?from=A&to=B")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status: %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type: %s", ct)
	}
}

func TestResetSession(t *testing.T) {
	reg := httpserver.NewSessionRegistry()
	reg.Get("u1").Append(domain.RoleUser, "hi")
	ts := newTestServer(&httpserver.Handlers{
		Planner:  &fakePlanner{},
		Advisor:  &fakeAdvisor{},
		Sessions: reg,
	})
	defer ts.Close()

	res := postJSON(t, ts.URL+"/v1/sessions/reset", `{"session_id": "u1"}`)
	res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("status: %d", res.StatusCode)
	}
	if len(reg.Get("u1").Turns) != 0 {
		t.Fatal("session not cleared")
	}

	res = postJSON(t, ts.URL+"/v1/sessions/reset", `{}`)
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d", res.StatusCode)
	}
}
