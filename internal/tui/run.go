package tui

import (
	"errors"

	"agentkit/internal/agent"

	tea "github.com/charmbracelet/bubbletea"
)

// Result 返回 REPL 结束时的会话内容。
type Result struct {
	History []agent.Message
}

// Run 封装 Bubble Tea 入口，阻塞直到用户退出。
func Run(opts Options) (Result, error) {
	if opts.Engine == nil {
		return Result{}, errors.New("tui: engine is required")
	}
	program := tea.NewProgram(New(opts), tea.WithAltScreen())
	m, err := program.Run()
	if err != nil {
		return Result{}, err
	}
	replModel, ok := m.(*Model)
	if !ok {
		return Result{}, errors.New("unexpected tui model")
	}
	return Result{History: replModel.History()}, nil
}
