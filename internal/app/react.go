package app

import (
	"context"
	"strings"
)

// Tool is the single callable the model backend may invoke. Invoke takes the
// raw Action Input text and returns observation text; it must not panic or
// return errors. Failures are rendered into the observation.
type Tool struct {
	Name        string
	Description string
	Invoke      func(ctx context.Context, input string) string
}

type decisionKind int

const (
	decisionMalformed decisionKind = iota
	decisionToolCall
	decisionFinal
)

// decision is the tagged result of parsing one raw model turn.
type decision struct {
	kind  decisionKind
	tool  string
	input string
	text  string
}

// parseDecision extracts either a final answer or a tool invocation from raw
// model output following the Thought/Action/Action Input/Final Answer
// protocol. A "Final Answer:" wins over a trailing action fragment; anything
// without either marker is malformed and handled as a no-op turn.
func parseDecision(raw string) decision {
	if idx := strings.LastIndex(raw, "Final Answer:"); idx >= 0 {
		text := strings.TrimSpace(raw[idx+len("Final Answer:"):])
		if text != "" {
			return decision{kind: decisionFinal, text: text}
		}
	}

	action := firstLineAfter(raw, "Action:")
	input, hasInput := lineAfter(raw, "Action Input:")
	if action != "" {
		if !hasInput {
			input = ""
		}
		return decision{kind: decisionToolCall, tool: action, input: input}
	}
	return decision{kind: decisionMalformed}
}

func firstLineAfter(raw, marker string) string {
	s, _ := lineAfter(raw, marker)
	return s
}

func lineAfter(raw, marker string) (string, bool) {
	idx := strings.Index(raw, marker)
	if idx < 0 {
		return "", false
	}
	rest := raw[idx+len(marker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.Trim(strings.TrimSpace(rest), "\"`"), true
}
