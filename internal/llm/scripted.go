package llm

import (
	"context"
	"sync"
)

// Scripted replays canned responses in order and keeps the prompts it
// received. It backs the offline CLI mode and the role tests; no external
// model is contacted.
type Scripted struct {
	mu        sync.Mutex
	responses []string
	// Fallback is returned once the scripted responses are exhausted.
	Fallback string
	prompts  []Prompt
}

// NewScripted builds a scripted client from an ordered response list.
func NewScripted(responses ...string) *Scripted {
	return &Scripted{responses: append([]string{}, responses...)}
}

// Complete pops the next scripted response.
func (s *Scripted) Complete(_ context.Context, prompt Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if len(s.responses) == 0 {
		return s.Fallback, nil
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	return next, nil
}

// Prompts returns a copy of every prompt seen so far.
func (s *Scripted) Prompts() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Prompt, len(s.prompts))
	copy(out, s.prompts)
	return out
}
