package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"agentkit/internal/agent"
	"agentkit/internal/execution"

	tea "github.com/charmbracelet/bubbletea"
)

type scriptedClient struct {
	completions []*agent.Completion
	err         error
	calls       int
}

func (c *scriptedClient) Complete(_ context.Context, _ agent.Prompt) (*agent.Completion, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.calls >= len(c.completions) {
		return nil, errors.New("unexpected extra completion call")
	}
	out := c.completions[c.calls]
	c.calls++
	return out, nil
}

func finalAnswer(text string) *agent.Completion {
	return &agent.Completion{
		ID:           "resp-final",
		Model:        "mistral-small-latest",
		Usage:        agent.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		FinishReason: agent.FinishStop,
		Outcome:      &agent.FinalAnswer{Text: text},
	}
}

func toolRound(requests ...agent.ToolRequest) *agent.Completion {
	return &agent.Completion{
		ID:           "resp-tools",
		Model:        "mistral-small-latest",
		Usage:        agent.Usage{PromptTokens: 20, CompletionTokens: 10, TotalTokens: 30},
		FinishReason: agent.FinishToolCalls,
		Outcome:      &agent.ToolCallRound{Requests: requests},
	}
}

func newTestModel(t *testing.T, client agent.ModelClient) *Model {
	t.Helper()
	engine := execution.NewEngine(execution.Options{Client: client})
	m := New(Options{
		Engine:        engine,
		Model:         "mistral-small-latest",
		MaxIterations: 5,
		Version:       "test",
	})
	m.resize(100, 40)
	return m
}

func pressEnter(t *testing.T, m *Model) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func transcriptText(m *Model) string {
	var sb strings.Builder
	for _, msg := range m.transcript {
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestSubmitRunsAgentAndRendersTrail(t *testing.T) {
	client := &scriptedClient{completions: []*agent.Completion{
		toolRound(agent.ToolRequest{
			ID:        "call-1",
			Name:      "calculator",
			Arguments: `{"operation":"multiply","a":25,"b":17}`,
		}),
		finalAnswer("The answer is 425."),
	}}
	m := newTestModel(t, client)

	m.textarea.SetValue("what is 25*17")
	cmd := pressEnter(t, m)
	if !m.pending {
		t.Fatalf("expected pending run after submit")
	}
	if cmd == nil {
		t.Fatalf("expected run command")
	}

	m.Update(cmd())
	if m.pending {
		t.Fatalf("expected run finished")
	}
	history := m.History()
	if len(history) != 2 {
		t.Fatalf("expected user+assistant history, got %d: %+v", len(history), history)
	}
	if history[1].Role != agent.RoleAssistant || history[1].Content != "The answer is 425." {
		t.Fatalf("unexpected assistant message %+v", history[1])
	}
	text := transcriptText(m)
	if !strings.Contains(text, "calculator") || !strings.Contains(text, "result: 425") {
		t.Fatalf("expected tool trail in transcript, got:\n%s", text)
	}
	if m.lastAnswer != "The answer is 425." {
		t.Fatalf("unexpected lastAnswer %q", m.lastAnswer)
	}
}

func TestSubmitIgnoredWhileRunPending(t *testing.T) {
	m := newTestModel(t, &scriptedClient{completions: []*agent.Completion{finalAnswer("ok")}})
	m.pending = true
	m.textarea.SetValue("second question")
	if cmd := pressEnter(t, m); cmd != nil {
		t.Fatalf("expected no command while pending")
	}
	if m.textarea.Value() != "second question" {
		t.Fatalf("composer must keep input while pending, got %q", m.textarea.Value())
	}
}

func TestRunErrorShownInStatus(t *testing.T) {
	m := newTestModel(t, &scriptedClient{err: &agent.GatewayError{
		Kind:     agent.ErrAuthentication,
		Provider: "mistral",
		Status:   401,
		Err:      errors.New("bad key"),
	}})
	m.textarea.SetValue("hello")
	cmd := pressEnter(t, m)
	m.Update(cmd())
	if m.err == nil {
		t.Fatalf("expected run error recorded")
	}
	if !strings.Contains(m.View(), "Error:") {
		t.Fatalf("expected error in status line")
	}
	// 失败的轮次不产生assistant消息。
	if len(m.History()) != 1 {
		t.Fatalf("expected only the user message in history, got %+v", m.History())
	}
}

func TestSlashClearResetsConversation(t *testing.T) {
	m := newTestModel(t, &scriptedClient{completions: []*agent.Completion{finalAnswer("hi there")}})
	m.textarea.SetValue("hello")
	cmd := pressEnter(t, m)
	m.Update(cmd())
	if len(m.History()) == 0 {
		t.Fatalf("expected seeded history")
	}

	m.textarea.SetValue("/clear")
	pressEnter(t, m)
	if len(m.History()) != 0 || len(m.transcript) != 0 {
		t.Fatalf("expected cleared conversation")
	}
	if m.lastAnswer != "" {
		t.Fatalf("expected lastAnswer cleared")
	}
}

func TestSlashModelSwitches(t *testing.T) {
	m := newTestModel(t, &scriptedClient{})
	m.textarea.SetValue("/model mistral-large-latest")
	pressEnter(t, m)
	if m.modelName != "mistral-large-latest" {
		t.Fatalf("expected model switch, got %q", m.modelName)
	}
	if !strings.Contains(transcriptText(m), "using model mistral-large-latest") {
		t.Fatalf("expected model notice in transcript")
	}
}

func TestSlashToolsListsRegistry(t *testing.T) {
	m := newTestModel(t, &scriptedClient{})
	m.textarea.SetValue("/tools")
	pressEnter(t, m)
	text := transcriptText(m)
	if !strings.Contains(text, "get_current_time") || !strings.Contains(text, "calculator") {
		t.Fatalf("expected builtin tools listed, got:\n%s", text)
	}
}

func TestSlashCopyUsesClipboard(t *testing.T) {
	m := newTestModel(t, &scriptedClient{})
	copied := ""
	m.copyText = func(text string) error {
		copied = text
		return nil
	}
	m.lastAnswer = "final answer"

	m.textarea.SetValue("/copy")
	cmd := pressEnter(t, m)
	if cmd == nil {
		t.Fatalf("expected copy command")
	}
	m.Update(cmd())
	if copied != "final answer" {
		t.Fatalf("expected clipboard write, got %q", copied)
	}
	if !strings.Contains(transcriptText(m), "copied last answer") {
		t.Fatalf("expected copy notice")
	}
}

func TestSlashCopyWithoutAnswer(t *testing.T) {
	m := newTestModel(t, &scriptedClient{})
	m.textarea.SetValue("/copy")
	if cmd := pressEnter(t, m); cmd != nil {
		t.Fatalf("expected no command without an answer")
	}
	if !strings.Contains(transcriptText(m), "nothing to copy yet") {
		t.Fatalf("expected notice about missing answer")
	}
}

func TestSlashQuitQuitsProgram(t *testing.T) {
	m := newTestModel(t, &scriptedClient{})
	m.textarea.SetValue("/quit")
	cmd := pressEnter(t, m)
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func TestSlashUnknownCommandNoted(t *testing.T) {
	m := newTestModel(t, &scriptedClient{})
	m.textarea.SetValue("/bogus")
	pressEnter(t, m)
	if len(m.History()) != 0 {
		t.Fatalf("unknown command must not become a message")
	}
	if len(m.transcript) == 0 {
		t.Fatalf("expected error notice in transcript")
	}
}

func TestSlashPaletteOpensWhileTyping(t *testing.T) {
	m := newTestModel(t, &scriptedClient{})
	typeText(m, "/mo")
	if !m.slash.Open() {
		t.Fatalf("expected slash palette open")
	}
	if !strings.Contains(m.View(), "/model") {
		t.Fatalf("expected palette overlay in view")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.slash.Open() {
		t.Fatalf("expected palette closed on esc")
	}
}

func TestSlashPaletteTabCompletes(t *testing.T) {
	m := newTestModel(t, &scriptedClient{})
	typeText(m, "/mo")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := strings.TrimSpace(m.textarea.Value()); got != "/model" {
		t.Fatalf("expected completion to /model, got %q", got)
	}
}

func TestInputHistoryRecallWithArrows(t *testing.T) {
	m := newTestModel(t, &scriptedClient{completions: []*agent.Completion{finalAnswer("one")}})
	m.textarea.SetValue("first question")
	cmd := pressEnter(t, m)
	m.Update(cmd())

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.textarea.Value() != "first question" {
		t.Fatalf("expected history recall, got %q", m.textarea.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.textarea.Value() != "" {
		t.Fatalf("expected draft restored, got %q", m.textarea.Value())
	}
}

func TestSystemPromptPrependedToRuns(t *testing.T) {
	var seen agent.Prompt
	client := &promptRecorder{reply: finalAnswer("ok"), seen: &seen}
	engine := execution.NewEngine(execution.Options{Client: client})
	m := New(Options{
		Engine:        engine,
		Model:         "mistral-small-latest",
		SystemPrompt:  "You are terse.",
		MaxIterations: 2,
		Version:       "test",
	})
	m.resize(100, 40)
	m.textarea.SetValue("hello")
	cmd := pressEnter(t, m)
	m.Update(cmd())

	if len(seen.Messages) != 2 || seen.Messages[0].Role != agent.RoleSystem {
		t.Fatalf("expected system prompt first, got %+v", seen.Messages)
	}
	// 系统提示不进入会话历史，避免下一轮重复注入。
	if len(m.History()) != 2 {
		t.Fatalf("unexpected history %+v", m.History())
	}
}

type promptRecorder struct {
	reply *agent.Completion
	seen  *agent.Prompt
}

func (c *promptRecorder) Complete(_ context.Context, prompt agent.Prompt) (*agent.Completion, error) {
	*c.seen = prompt
	return c.reply, nil
}
