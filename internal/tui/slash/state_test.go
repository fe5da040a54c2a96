package slash

import (
	"strings"
	"testing"
)

func TestSyncInputOpensOnSlashToken(t *testing.T) {
	state := NewState(0)
	state.SyncInput(Input{Value: "/mo", CursorLine: 0, CursorColumn: 3})
	if !state.Open() {
		t.Fatalf("expected slash popup to open")
	}
	if len(state.matches) != 1 || state.matches[0].item.Command != CommandModel {
		t.Fatalf("expected single model match, got %+v", state.matches)
	}
}

func TestSyncInputOpensOnBareSlash(t *testing.T) {
	state := NewState(0)
	state.SyncInput(Input{Value: "/", CursorLine: 0, CursorColumn: 1})
	if !state.Open() {
		t.Fatalf("expected slash popup to open on bare slash")
	}
	if len(state.matches) != len(builtinItems()) {
		t.Fatalf("expected all commands listed, got %d", len(state.matches))
	}
}

func TestSyncInputClosesOnPlainText(t *testing.T) {
	state := NewState(0)
	state.SyncInput(Input{Value: "/mo", CursorLine: 0, CursorColumn: 3})
	state.SyncInput(Input{Value: "hello", CursorLine: 0, CursorColumn: 5})
	if state.Open() {
		t.Fatalf("expected popup to close for plain text")
	}
}

func TestSyncInputClosedWhenCursorPastToken(t *testing.T) {
	state := NewState(0)
	// 光标已经落在参数区，补全弹窗不应再挡住输入。
	state.SyncInput(Input{Value: "/model mistral", CursorLine: 0, CursorColumn: 14})
	if state.Open() {
		t.Fatalf("expected popup closed while editing args")
	}
}

func TestFuzzyMatchesSubsequence(t *testing.T) {
	state := NewState(0)
	state.SyncInput(Input{Value: "/cp", CursorLine: 0, CursorColumn: 3})
	if !state.Open() || len(state.matches) == 0 {
		t.Fatalf("expected fuzzy match for cp")
	}
	if state.matches[0].item.Command != CommandCopy {
		t.Fatalf("expected copy first, got %v", state.matches[0].item.Command)
	}
}

func TestHandleKeyTabCompletes(t *testing.T) {
	state := NewState(0)
	state.SyncInput(Input{Value: "/mo", CursorLine: 0, CursorColumn: 3})
	action, handled := state.HandleKey("tab")
	if !handled {
		t.Fatalf("expected tab handled")
	}
	if action.Kind != ActionInsert {
		t.Fatalf("expected insert action, got %v", action.Kind)
	}
	if strings.TrimSpace(action.NewValue) != "/model" {
		t.Fatalf("unexpected inserted value: %q", action.NewValue)
	}
	if action.CursorColumn != len("/model")+1 {
		t.Fatalf("unexpected cursor column %d", action.CursorColumn)
	}
}

func TestHandleKeyEnterSubmitsSelection(t *testing.T) {
	state := NewState(0)
	state.SyncInput(Input{Value: "/cle", CursorLine: 0, CursorColumn: 4})
	action, handled := state.HandleKey("enter")
	if !handled {
		t.Fatalf("expected enter handled")
	}
	if action.Kind != ActionSubmit || action.Command != CommandClear {
		t.Fatalf("unexpected action %+v", action)
	}
	if state.Open() {
		t.Fatalf("expected popup closed after submit")
	}
}

func TestHandleKeySelectionCycles(t *testing.T) {
	state := NewState(0)
	state.SyncInput(Input{Value: "/", CursorLine: 0, CursorColumn: 1})
	total := len(state.matches)
	if _, handled := state.HandleKey("up"); !handled {
		t.Fatalf("expected up handled")
	}
	if state.selected != total-1 {
		t.Fatalf("expected wrap to last item, got %d", state.selected)
	}
	if _, handled := state.HandleKey("down"); !handled {
		t.Fatalf("expected down handled")
	}
	if state.selected != 0 {
		t.Fatalf("expected wrap back to first item, got %d", state.selected)
	}
}

func TestHandleKeyEscCloses(t *testing.T) {
	state := NewState(0)
	state.SyncInput(Input{Value: "/", CursorLine: 0, CursorColumn: 1})
	action, handled := state.HandleKey("esc")
	if !handled || action.Kind != ActionClose {
		t.Fatalf("expected close action, got %+v", action)
	}
	if state.Open() {
		t.Fatalf("expected popup closed")
	}
}

func TestHandleKeyIgnoredWhenClosed(t *testing.T) {
	state := NewState(0)
	if _, handled := state.HandleKey("enter"); handled {
		t.Fatalf("closed popup must not consume keys")
	}
}

func TestResolveSubmitExactCommand(t *testing.T) {
	state := NewState(0)
	action := state.ResolveSubmit("/tools")
	if action.Kind != ActionSubmit || action.Command != CommandTools {
		t.Fatalf("expected tools submit, got %+v", action)
	}
}

func TestResolveSubmitCarriesArgs(t *testing.T) {
	state := NewState(0)
	action := state.ResolveSubmit("/model mistral-large-latest")
	if action.Kind != ActionSubmit || action.Command != CommandModel {
		t.Fatalf("expected model submit, got %+v", action)
	}
	if action.Args != "mistral-large-latest" {
		t.Fatalf("unexpected args %q", action.Args)
	}
}

func TestResolveSubmitUnknownCommand(t *testing.T) {
	state := NewState(0)
	action := state.ResolveSubmit("/bogus")
	if action.Kind != ActionError {
		t.Fatalf("expected error action, got %+v", action)
	}
}

func TestResolveSubmitPlainTextIsNone(t *testing.T) {
	state := NewState(0)
	action := state.ResolveSubmit("what time is it")
	if action.Kind != ActionNone {
		t.Fatalf("plain text must not resolve to a command, got %+v", action)
	}
}

func TestLocateTokenRejectsInnerSlash(t *testing.T) {
	token := locateToken([]rune("/foo/bar"), 8)
	if token.found {
		t.Fatalf("path-like input must not be treated as a command")
	}
}
