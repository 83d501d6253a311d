package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
)

// RateLimitMessage is the fixed, user-readable reply returned when the model
// backend's quota stays exhausted after all retries.
const RateLimitMessage = "Rate limit exceeded. The planning service has used up its model quota for now. " +
	"Please wait a minute and try again."

// RetryPolicy bounds the rate-limit retry around the single model call site:
// exponential backoff doubling from BaseDelay, clamped to MaxDelay, at most
// MaxAttempts tries total.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.BaseDelay << attempt
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Orchestrator drives the bounded think/act/observe loop for one planning
// request: Start → ModelTurn → {ToolCall → Observation → ModelTurn}* →
// FinalAnswer | Aborted. The aggregator is its sole tool.
type Orchestrator struct {
	model    domain.ModelClient
	tool     Tool
	retry    RetryPolicy
	maxIters int
	budget   time.Duration
	log      zerolog.Logger

	// sleep is swappable in tests; it returns false when ctx ends first.
	sleep func(ctx context.Context, d time.Duration) bool
}

func NewOrchestrator(model domain.ModelClient, tool Tool, retry RetryPolicy, maxIters int, budget time.Duration, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		model:    model,
		tool:     tool,
		retry:    retry,
		maxIters: maxIters,
		budget:   budget,
		log:      log,
		sleep:    sleepCtx,
	}
}

// PlanTrip runs the loop to completion. It never propagates tool or query
// failures: those become observations. The returned error is reserved for
// non-rate-limit model-backend failures; budget exhaustion and rate limiting
// both produce readable answers with a nil error.
func (o *Orchestrator) PlanTrip(ctx context.Context, sess *domain.OrchestrationSession, userQuery string) (string, error) {
	deadline := time.Now().Add(o.budget)
	var scratchpad strings.Builder
	lastObservation := ""

	sess.Append(domain.RoleUser, userQuery)

	for iter := 0; iter < o.maxIters; iter++ {
		if time.Now().After(deadline) {
			o.log.Warn().Int("iteration", iter).Msg("time budget exceeded, aborting loop")
			return o.finish(sess, bestEffort(lastObservation)), nil
		}

		prompt := buildPrompt(o.tool, sess, userQuery, scratchpad.String())
		raw, err := o.modelTurn(ctx, prompt)
		if err != nil {
			if errors.Is(err, domain.ErrRateLimited) {
				o.log.Warn().Msg("rate limit retries exhausted")
				return o.finish(sess, RateLimitMessage), nil
			}
			return "", fmt.Errorf("model turn: %w", err)
		}

		switch dec := parseDecision(raw); dec.kind {
		case decisionFinal:
			o.log.Info().Int("iterations", iter+1).Msg("planning finished")
			return o.finish(sess, dec.text), nil

		case decisionToolCall:
			obs := o.invokeTool(ctx, dec.tool, dec.input)
			lastObservation = obs
			scratchpad.WriteString(raw)
			scratchpad.WriteString("\nObservation: " + obs + "\n")

		case decisionMalformed:
			// No-op turn: keep the raw output visible and re-prompt.
			o.log.Warn().Int("iteration", iter).Msg("malformed model output, re-prompting")
			scratchpad.WriteString(raw)
			scratchpad.WriteString("\n" + malformedNudge + "\n")
		}
	}

	o.log.Warn().Int("max_iterations", o.maxIters).Msg("iteration budget exceeded, aborting loop")
	return o.finish(sess, bestEffort(lastObservation)), nil
}

// invokeTool dispatches the single known tool. Unknown names and every tool
// failure mode come back as observation text, never as an error.
func (o *Orchestrator) invokeTool(ctx context.Context, name, input string) string {
	if !strings.EqualFold(strings.TrimSpace(name), o.tool.Name) {
		observability.ObserveTool(name, "error")
		return fmt.Sprintf("Unknown tool %q. The only available tool is %s.", name, o.tool.Name)
	}
	obs := func() (out string) {
		defer func() {
			if r := recover(); r != nil {
				o.log.Error().Any("panic", r).Msg("tool panicked")
				out = "The travel data tool failed unexpectedly. Answer with general advice."
			}
		}()
		return o.tool.Invoke(ctx, input)
	}()
	observability.ObserveTool(o.tool.Name, "ok")
	return obs
}

// modelTurn performs one model round trip under the retry policy. Only
// rate-limit errors are retried; after the attempts run out it returns
// domain.ErrRateLimited.
func (o *Orchestrator) modelTurn(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < o.retry.MaxAttempts; attempt++ {
		start := time.Now()
		out, err := o.model.Generate(ctx, prompt)
		if err == nil {
			observability.ObserveModel("ok", time.Since(start))
			return out, nil
		}
		if !errors.Is(err, domain.ErrRateLimited) {
			observability.ObserveModel("error", time.Since(start))
			return "", err
		}
		observability.ObserveModel("rate_limited", time.Since(start))
		lastErr = err
		if attempt+1 >= o.retry.MaxAttempts {
			break
		}
		wait := o.retry.delay(attempt)
		o.log.Warn().Dur("wait", wait).Int("attempt", attempt+1).Msg("model rate limited, backing off")
		if !o.sleep(ctx, wait) {
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

func (o *Orchestrator) finish(sess *domain.OrchestrationSession, answer string) string {
	sess.Append(domain.RoleAssistant, answer)
	return answer
}

// bestEffort synthesizes an answer from the last observation when a budget
// forces an abort, instead of surfacing an error to the user.
func bestEffort(lastObservation string) string {
	if lastObservation == "" {
		return "I could not finish planning in time and no travel data was gathered. " +
			"Please try again, or narrow the request (e.g. one origin, one destination, a budget level)."
	}
	return "I ran out of planning time before writing a full itinerary. " +
		"Here is the travel data I gathered so you can decide:\n\n" + lastObservation +
		"\n\nAsk again to have me turn this into a day-by-day plan."
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
