package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"travel_planner/internal/domain"
)

// TripPlanner is the orchestrator surface the handlers need.
type TripPlanner interface {
	PlanTrip(ctx context.Context, sess *domain.OrchestrationSession, userQuery string) (string, error)
}

// RouteFinder is the Route Advisor surface for pre-flight checks.
type RouteFinder interface {
	HasDirectRoute(ctx context.Context, origin, destination string) (bool, error)
	Alternatives(ctx context.Context, origin, destination string) ([]domain.RouteOption, error)
}

// TripStore persists finished plans.
type TripStore interface {
	SaveTrip(ctx context.Context, t domain.TripRecord) error
}

type Handlers struct {
	Planner  TripPlanner
	Advisor  RouteFinder
	Trips    TripStore
	Sessions *SessionRegistry
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/trips/plan", h.planTrip)
	s.mux.Get("/v1/routes/alternatives", h.routeAlternatives)
	s.mux.Post("/v1/sessions/reset", h.resetSession)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

type planRequest struct {
	SessionID       string   `json:"session_id"`
	Query           string   `json:"query"`
	SourceCity      string   `json:"source_city,omitempty"`
	DestinationCity string   `json:"destination_city,omitempty"`
	StartDate       string   `json:"start_date,omitempty"` // 2006-01-02
	EndDate         string   `json:"end_date,omitempty"`
	TotalBudget     *float64 `json:"total_budget,omitempty"`
}

type planResponse struct {
	Answer string `json:"answer"`
}

func (h *Handlers) planTrip(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be JSON")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeProblem(w, http.StatusBadRequest, "Missing query", "query is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = "anonymous"
	}

	sess := h.Sessions.Get(req.SessionID)
	answer, err := h.Planner.PlanTrip(r.Context(), sess, req.Query)
	if err != nil {
		log.Error().Err(err).Msg("plan trip failed")
		writeProblem(w, http.StatusBadGateway, "Planning failed",
			"the planning backend is unavailable; please try again")
		return
	}

	h.persistTrip(r.Context(), req, answer)
	writeJSON(w, http.StatusOK, planResponse{Answer: answer})
}

// persistTrip writes the trip record best-effort; a storage hiccup must not
// cost the user their answer.
func (h *Handlers) persistTrip(ctx context.Context, req planRequest, answer string) {
	if h.Trips == nil || req.SourceCity == "" || req.DestinationCity == "" {
		return
	}
	start, err1 := time.Parse("2006-01-02", req.StartDate)
	end, err2 := time.Parse("2006-01-02", req.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return
	}
	itinerary, _ := json.Marshal(map[string]any{
		"source_city":      req.SourceCity,
		"destination_city": req.DestinationCity,
		"query":            req.Query,
	})
	rec := domain.TripRecord{
		UserID:          req.SessionID,
		SourceCity:      req.SourceCity,
		DestinationCity: req.DestinationCity,
		StartDate:       start,
		EndDate:         end,
		DurationDays:    int(end.Sub(start).Hours()/24) + 1,
		TotalBudget:     req.TotalBudget,
		ItineraryJSON:   itinerary,
		AgentResponse:   answer,
	}
	if err := h.Trips.SaveTrip(ctx, rec); err != nil {
		log.Warn().Err(err).Msg("save trip failed")
	}
}

type alternativesResponse struct {
	Direct       bool                 `json:"direct"`
	Alternatives []domain.RouteOption `json:"alternatives"`
}

func (h *Handlers) routeAlternatives(w http.ResponseWriter, r *http.Request) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		writeProblem(w, http.StatusBadRequest, "Missing cities", "from and to query params are required")
		return
	}

	direct, err := h.Advisor.HasDirectRoute(r.Context(), from, to)
	if err != nil {
		routeProblem(w, err)
		return
	}
	alts, err := h.Advisor.Alternatives(r.Context(), from, to)
	if err != nil {
		routeProblem(w, err)
		return
	}
	if alts == nil {
		alts = []domain.RouteOption{}
	}
	writeJSON(w, http.StatusOK, alternativesResponse{Direct: direct, Alternatives: alts})
}

func routeProblem(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("route advisor failed")
	if errors.Is(err, domain.ErrConnection) {
		writeProblem(w, http.StatusServiceUnavailable, "Store unavailable", "inventory store is unreachable")
		return
	}
	writeProblem(w, http.StatusInternalServerError, "Route lookup failed", "")
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

func (h *Handlers) resetSession(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeProblem(w, http.StatusBadRequest, "Missing session", "session_id is required")
		return
	}
	h.Sessions.Reset(req.SessionID)
	w.WriteHeader(http.StatusNoContent)
}
