package domain

import "testing"

func TestSessionHistory(t *testing.T) {
	s := NewSession()
	if s.History() != "" {
		t.Fatalf("fresh history: %q", s.History())
	}

	s.Append(RoleUser, "plan a trip")
	s.Append(RoleAssistant, "here is a plan")
	want := "user: plan a trip\nassistant: here is a plan\n"
	if got := s.History(); got != want {
		t.Fatalf("history = %q, want %q", got, want)
	}
	if s.TotalTurns != 2 {
		t.Fatalf("total turns = %d", s.TotalTurns)
	}
}

func TestSessionReset(t *testing.T) {
	s := NewSession()
	s.Append(RoleUser, "hello")
	s.Reset()
	if len(s.Turns) != 0 || s.TotalTurns != 0 || s.History() != "" {
		t.Fatalf("reset left state: %+v", s)
	}

	s.Append(RoleUser, "again")
	if s.TotalTurns != 1 {
		t.Fatalf("post-reset append: %+v", s)
	}
}
