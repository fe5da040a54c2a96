package execution

import (
	"errors"
	"testing"

	"agentkit/internal/agent"
)

func TestNormalizeAppliesDefaults(t *testing.T) {
	req := Request{Messages: []agent.Message{agent.UserMessage("hi")}}
	norm, err := req.normalize()
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}
	if norm.MaxIterations != DefaultMaxIterations {
		t.Fatalf("max iterations = %d", norm.MaxIterations)
	}
	if norm.ToolChoice != agent.ToolChoiceAuto {
		t.Fatalf("tool choice = %q", norm.ToolChoice)
	}
	if norm.Sampling.MaxTokens != agent.DefaultMaxTokens {
		t.Fatalf("max tokens = %d", norm.Sampling.MaxTokens)
	}
	if norm.Sampling.Temperature == nil || *norm.Sampling.Temperature != agent.DefaultTemperature {
		t.Fatalf("temperature = %v", norm.Sampling.Temperature)
	}
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	temperature := 0.1
	req := Request{
		Messages:      []agent.Message{agent.UserMessage("hi")},
		ToolChoice:    agent.ToolChoiceNone,
		MaxIterations: 25,
		Sampling:      agent.Sampling{MaxTokens: 64, Temperature: &temperature},
	}
	norm, err := req.normalize()
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}
	if norm.MaxIterations != 25 || norm.ToolChoice != agent.ToolChoiceNone {
		t.Fatalf("normalized = %+v", norm)
	}
	if norm.Sampling.MaxTokens != 64 || *norm.Sampling.Temperature != 0.1 {
		t.Fatalf("sampling = %+v", norm.Sampling)
	}
}

func TestNormalizeRejectsOutOfRangeValues(t *testing.T) {
	base := func() Request {
		return Request{Messages: []agent.Message{agent.UserMessage("hi")}}
	}

	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty messages", func(r *Request) { r.Messages = nil }},
		{"budget above limit", func(r *Request) { r.MaxIterations = MaxIterationsLimit + 1 }},
		{"budget negative", func(r *Request) { r.MaxIterations = -3 }},
		{"unknown tool choice", func(r *Request) { r.ToolChoice = "maybe" }},
		{"negative max tokens", func(r *Request) { r.Sampling.MaxTokens = -1 }},
	}
	for _, tc := range cases {
		req := base()
		tc.mutate(&req)
		if _, err := req.normalize(); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("%s: err = %v, want ErrInvalidRequest", tc.name, err)
		}
	}
}

func TestNormalizeBudgetBounds(t *testing.T) {
	for _, budget := range []int{1, DefaultMaxIterations, MaxIterationsLimit} {
		req := Request{
			Messages:      []agent.Message{agent.UserMessage("hi")},
			MaxIterations: budget,
		}
		norm, err := req.normalize()
		if err != nil {
			t.Fatalf("budget %d rejected: %v", budget, err)
		}
		if norm.MaxIterations != budget {
			t.Fatalf("budget %d rewritten to %d", budget, norm.MaxIterations)
		}
	}
}
