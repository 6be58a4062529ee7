package assistant

import (
	"context"
	"sync"

	"github.com/medchain/medchain/internal/domain/state"
)

// Stub is a scriptable Client for tests. Zero value behaves like Disabled.
type Stub struct {
	mu sync.Mutex

	Suggestions []Suggestion
	Bill        *state.Bill
	QueryAnswer string
	VoiceAnswer string

	Calls []string
}

func (s *Stub) record(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, op)
}

// SuggestMedications implements Client.
func (s *Stub) SuggestMedications(context.Context, string, string) []Suggestion {
	s.record("suggest")
	if s.Suggestions == nil {
		return []Suggestion{}
	}
	return s.Suggestions
}

// SynthesizeBill implements Client.
func (s *Stub) SynthesizeBill(context.Context, state.Patient, string, []state.BillLine) *state.Bill {
	s.record("bill")
	return s.Bill
}

// AnswerOperationalQuery implements Client.
func (s *Stub) AnswerOperationalQuery(context.Context, string, string) string {
	s.record("query")
	if s.QueryAnswer == "" {
		return FallbackQuery
	}
	return s.QueryAnswer
}

// InterpretVoiceCommand implements Client.
func (s *Stub) InterpretVoiceCommand(context.Context, string, string) string {
	s.record("voice")
	if s.VoiceAnswer == "" {
		return FallbackVoice
	}
	return s.VoiceAnswer
}
