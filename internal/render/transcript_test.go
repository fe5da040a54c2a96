package render

import (
	"strings"
	"testing"
	"time"

	"agentkit/internal/agent"
	"agentkit/internal/execution"
)

func TestRenderMessagesPrefixes(t *testing.T) {
	msgs := []agent.Message{
		agent.UserMessage("hi"),
		agent.AssistantMessage("hello there"),
	}
	lines := LinesToStrings(RenderMessages(msgs, 40))
	text := strings.Join(lines, "\n")
	if !strings.Contains(text, "› hi") {
		t.Fatalf("expected user prefix, got:\n%s", text)
	}
	if !strings.Contains(text, "• hello there") {
		t.Fatalf("expected assistant prefix, got:\n%s", text)
	}
	// 用户消息前后各留一个空行。
	if lines[0] != "" {
		t.Fatalf("expected leading blank line, got %q", lines[0])
	}
}

func TestRenderMessagesContinuationIndent(t *testing.T) {
	msgs := []agent.Message{agent.AssistantMessage("one two three four")}
	lines := LinesToStrings(RenderMessages(msgs, 11))
	if len(lines) < 2 {
		t.Fatalf("expected wrapped assistant message, got %v", lines)
	}
	if !strings.HasPrefix(lines[0], "• ") {
		t.Fatalf("first line missing bullet: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  ") {
		t.Fatalf("continuation missing indent: %q", lines[1])
	}
}

func TestRenderMessagesToolBlockPreformatted(t *testing.T) {
	block := "✓ calculator (1ms)\n  └ result: 425"
	msgs := []agent.Message{{Role: agent.RoleTool, Content: block}}
	lines := LinesToStrings(RenderMessages(msgs, 60))
	text := strings.Join(lines, "\n")
	if !strings.Contains(text, "  └ result: 425") {
		t.Fatalf("expected preserved indentation, got:\n%s", text)
	}
}

func TestResponseHumanLayout(t *testing.T) {
	resp := &execution.Response{
		ID:           "resp-1",
		Model:        "mistral-small-latest",
		State:        execution.StateCompleted,
		Content:      "The answer is 425.",
		FinishReason: agent.FinishStop,
		Usage:        agent.Usage{PromptTokens: 52, CompletionTokens: 23, TotalTokens: 75},
		Iterations:   2,
		ToolCalls: []execution.ToolCallRecord{
			{
				ID:        "call-1",
				Name:      "calculator",
				Arguments: map[string]any{"operation": "multiply"},
				Result:    "425",
				Duration:  3 * time.Millisecond,
			},
		},
	}
	out := Response(resp, 80)
	trailIdx := strings.Index(out, "calculator")
	answerIdx := strings.Index(out, "The answer is 425.")
	metaIdx := strings.Index(out, "tokens 75 (prompt 52, completion 23)")
	if trailIdx < 0 || answerIdx < 0 || metaIdx < 0 {
		t.Fatalf("missing section in output:\n%s", out)
	}
	if !(trailIdx < answerIdx && answerIdx < metaIdx) {
		t.Fatalf("sections out of order:\n%s", out)
	}
	if !strings.Contains(out, "iterations 2") {
		t.Fatalf("expected iteration count, got:\n%s", out)
	}
	if !strings.Contains(out, "tool calls 1") {
		t.Fatalf("expected tool call count, got:\n%s", out)
	}
}

func TestResponseNilAndEmpty(t *testing.T) {
	if got := Response(nil, 80); got != "" {
		t.Fatalf("expected empty output for nil response, got %q", got)
	}
	resp := &execution.Response{
		Model:      "mistral-small-latest",
		State:      execution.StateCompleted,
		Iterations: 1,
	}
	out := Response(resp, 80)
	if !strings.Contains(out, "model mistral-small-latest") {
		t.Fatalf("expected meta line, got %q", out)
	}
	if strings.Contains(out, "\n\n") {
		t.Fatalf("expected a single meta section for empty content, got %q", out)
	}
}
