package agent

import (
	"context"
	"testing"
)

func TestToolResultMessageCarriesCorrelation(t *testing.T) {
	msg := ToolResultMessage("call-1", "calculator", "425")
	if msg.Role != RoleTool {
		t.Fatalf("role = %q, want %q", msg.Role, RoleTool)
	}
	if msg.ToolCallID != "call-1" || msg.Name != "calculator" {
		t.Fatalf("correlation fields = (%q, %q), want (call-1, calculator)", msg.ToolCallID, msg.Name)
	}
	if msg.Content != "425" {
		t.Fatalf("content = %q, want 425", msg.Content)
	}
}

func TestAssistantToolCallsKeepsRequestsVerbatim(t *testing.T) {
	calls := []ToolRequest{
		{ID: "a", Name: "calculator", Arguments: `{"operation":"add","a":1,"b":2}`},
		{ID: "b", Name: "get_current_time", Arguments: `{}`},
	}
	msg := AssistantToolCalls("", calls)
	if msg.Role != RoleAssistant {
		t.Fatalf("role = %q, want assistant", msg.Role)
	}
	if len(msg.ToolCalls) != 2 {
		t.Fatalf("tool calls = %d, want 2", len(msg.ToolCalls))
	}
	for i, call := range calls {
		if msg.ToolCalls[i] != call {
			t.Fatalf("call %d = %+v, want %+v", i, msg.ToolCalls[i], call)
		}
	}
}

func TestUsageAddIsComponentwise(t *testing.T) {
	total := Usage{}
	parts := []Usage{
		{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		{PromptTokens: 20, CompletionTokens: 7, TotalTokens: 27},
		{PromptTokens: 1, CompletionTokens: 0, TotalTokens: 1},
	}
	for _, p := range parts {
		total = total.Add(p)
	}
	want := Usage{PromptTokens: 31, CompletionTokens: 12, TotalTokens: 43}
	if total != want {
		t.Fatalf("total = %+v, want %+v", total, want)
	}
}

func TestEchoClientReturnsFinalAnswer(t *testing.T) {
	client := EchoClient{Prefix: "echo: "}
	resp, err := client.Complete(context.Background(), Prompt{Messages: []Message{UserMessage("hi")}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	final, ok := resp.Outcome.(*FinalAnswer)
	if !ok {
		t.Fatalf("outcome type = %T, want *FinalAnswer", resp.Outcome)
	}
	if final.Text != "echo: hi" {
		t.Fatalf("text = %q, want %q", final.Text, "echo: hi")
	}
}

func TestEchoClientRejectsEmptyPrompt(t *testing.T) {
	client := EchoClient{}
	if _, err := client.Complete(context.Background(), Prompt{}); err == nil {
		t.Fatalf("expected error for empty prompt")
	}
}
