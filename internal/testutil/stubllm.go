package testutil

import (
	"context"

	"learnpath/internal/llm"
)

// StubLLM is an llm.Client that replays scripted responses in order. Once the
// script runs out the last entry repeats. Errors take precedence over text.
type StubLLM struct {
	Responses []StubResponse
	Calls     []llm.GenerateRequest
}

type StubResponse struct {
	Text string
	Err  error
}

func (s *StubLLM) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	s.Calls = append(s.Calls, req)

	idx := len(s.Calls) - 1
	if idx >= len(s.Responses) {
		idx = len(s.Responses) - 1
	}
	resp := s.Responses[idx]
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &llm.GenerateResponse{Text: resp.Text, Model: "stub"}, nil
}
