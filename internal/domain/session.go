package domain

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry of a session's conversational memory.
type Turn struct {
	Role string
	Text string
}

// OrchestrationSession holds one user's conversational memory plus loop
// counters. It is owned by exactly one session; create/reset/destroy are the
// caller's responsibility. Per-session execution is single-threaded, so the
// struct carries no lock.
type OrchestrationSession struct {
	Turns      []Turn
	TotalTurns int
}

func NewSession() *OrchestrationSession { return &OrchestrationSession{} }

func (s *OrchestrationSession) Append(role, text string) {
	s.Turns = append(s.Turns, Turn{Role: role, Text: text})
	s.TotalTurns++
}

// History renders prior turns for prompt embedding. Empty when fresh.
func (s *OrchestrationSession) History() string {
	if len(s.Turns) == 0 {
		return ""
	}
	out := make([]byte, 0, 256)
	for _, t := range s.Turns {
		out = append(out, t.Role...)
		out = append(out, ": "...)
		out = append(out, t.Text...)
		out = append(out, '\n')
	}
	return string(out)
}

// Reset clears memory and leaves the session ready for a fresh,
// unrelated conversation.
func (s *OrchestrationSession) Reset() {
	s.Turns = nil
	s.TotalTurns = 0
}
