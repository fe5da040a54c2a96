// Package tui 实现 chat 子命令的交互式 REPL。
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agentkit/internal/agent"
	"agentkit/internal/execution"
	"agentkit/internal/render"
	"agentkit/internal/tui/slash"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const welcomeText = "Type a message to start, / for commands."

// Options 配置 REPL 的引擎与初始运行参数。
type Options struct {
	Engine        *execution.Engine
	Model         string
	SystemPrompt  string
	MaxIterations int
	Sampling      agent.Sampling
	Version       string
}

// runDoneMsg 携带一次agent运行的结果回到UI事件循环。
type runDoneMsg struct {
	resp *execution.Response
	err  error
}

type copyDoneMsg struct {
	err error
}

// Model 是 REPL 的 Bubble Tea 模型。
// history 只保留 user/assistant 的最终消息并作为下一次运行的上下文；
// transcript 额外包含工具轨迹与提示块，仅用于展示。
type Model struct {
	engine   *execution.Engine
	textarea textarea.Model
	viewport viewport.Model
	spin     spinner.Model
	slash    *slash.State

	history    []agent.Message
	transcript []agent.Message
	inputHist  inputHistory

	modelName     string
	systemPrompt  string
	maxIterations int
	sampling      agent.Sampling
	version       string

	lastAnswer string
	copyText   func(string) error

	pending         bool
	err             error
	width           int
	height          int
	transcriptDirty bool
}

// New 构造 REPL 模型。
func New(opts Options) *Model {
	ti := textarea.New()
	ti.Placeholder = "Ask anything…"
	ti.Prompt = "› "
	ti.CharLimit = 0
	ti.SetWidth(86)
	ti.SetHeight(1)
	ti.ShowLineNumbers = false
	ti.Focus()

	vp := viewport.New(86, 14)
	vp.SetContent(welcomeText)

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	m := Model{
		engine:          opts.Engine,
		textarea:        ti,
		viewport:        vp,
		spin:            spin,
		slash:           slash.NewState(0),
		modelName:       opts.Model,
		systemPrompt:    opts.SystemPrompt,
		maxIterations:   opts.MaxIterations,
		sampling:        opts.Sampling,
		version:         opts.Version,
		copyText:        clipboard.WriteAll,
		width:           90,
		height:          24,
		transcriptDirty: true,
	}
	return &m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spin.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m.finish(cmds...)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		return m.finish(cmds...)
	case runDoneMsg:
		m.applyRunResult(msg.resp, msg.err)
		return m.finish(cmds...)
	case copyDoneMsg:
		if msg.err != nil {
			m.note(fmt.Sprintf("copy failed: %v", msg.err))
		} else {
			m.note("copied last answer to clipboard")
		}
		return m.finish(cmds...)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		return m.finish(cmds...)
	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		if m.slash.Open() {
			if action, handled := m.slash.HandleKey(key); handled {
				if cmd := m.applySlashAction(action); cmd != nil {
					cmds = append(cmds, cmd)
				}
				return m.finish(cmds...)
			}
		}
		if cmd, handled := m.handleKey(key); handled {
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			return m.finish(cmds...)
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.syncComposerHeight()
	m.syncSlash()
	return m.finish(cmds...)
}

// handleKey 处理不经过输入框的按键，返回 false 表示交给输入框。
func (m *Model) handleKey(key string) (tea.Cmd, bool) {
	switch key {
	case "alt+enter":
		m.textarea.InsertString("\n")
		m.syncComposerHeight()
		m.syncSlash()
		return nil, true
	case "pgup":
		m.viewport.PageUp()
		return nil, true
	case "pgdown":
		m.viewport.PageDown()
		return nil, true
	case "home":
		m.viewport.GotoTop()
		return nil, true
	case "end":
		m.viewport.GotoBottom()
		return nil, true
	case "up":
		if m.textarea.Line() == 0 {
			if text, ok := m.inputHist.Prev(m.textarea.Value()); ok {
				m.setComposerText(text)
				return nil, true
			}
		}
		return nil, false
	case "down":
		if m.inputHist.Browsing() && m.textarea.Line() >= m.textarea.LineCount()-1 {
			if text, ok := m.inputHist.Next(); ok {
				m.setComposerText(text)
				return nil, true
			}
		}
		return nil, false
	case "enter":
		return m.submit(), true
	default:
		return nil, false
	}
}

// submit 处理回车：斜杠命令分发或把输入作为新的用户消息发起运行。
func (m *Model) submit() tea.Cmd {
	if m.pending {
		return nil
	}
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return nil
	}
	if strings.HasPrefix(input, "/") {
		action := m.slash.ResolveSubmit(input)
		switch action.Kind {
		case slash.ActionSubmit:
			m.inputHist.Add(input)
			m.resetComposer()
			return m.execSlash(action.Command, action.Args)
		case slash.ActionError:
			m.note(action.Message)
			return nil
		}
	}
	m.inputHist.Add(input)
	m.history = append(m.history, agent.UserMessage(input))
	m.transcript = append(m.transcript, agent.UserMessage(input))
	m.refreshTranscript()
	m.resetComposer()
	m.pending = true
	m.err = nil
	return m.startRun()
}

func (m *Model) applySlashAction(action slash.Action) tea.Cmd {
	switch action.Kind {
	case slash.ActionInsert:
		m.textarea.SetValue(action.NewValue)
		m.textarea.SetCursor(action.CursorColumn)
		m.syncComposerHeight()
		m.syncSlash()
	case slash.ActionSubmit:
		m.resetComposer()
		return m.execSlash(action.Command, action.Args)
	case slash.ActionError:
		m.note(action.Message)
	}
	return nil
}

func (m *Model) execSlash(cmd slash.Command, args string) tea.Cmd {
	switch cmd {
	case slash.CommandHelp:
		m.note(helpText(m.slash.Items()))
	case slash.CommandTools:
		m.note(toolListText(m.engine))
	case slash.CommandModel:
		if name := strings.TrimSpace(args); name != "" {
			m.modelName = strings.Fields(name)[0]
		}
		m.note(fmt.Sprintf("using model %s", m.modelName))
	case slash.CommandClear:
		m.history = nil
		m.transcript = nil
		m.lastAnswer = ""
		m.err = nil
		m.refreshTranscript()
	case slash.CommandCopy:
		if strings.TrimSpace(m.lastAnswer) == "" {
			m.note("nothing to copy yet")
			return nil
		}
		text := m.lastAnswer
		copyText := m.copyText
		return func() tea.Msg {
			return copyDoneMsg{err: copyText(text)}
		}
	case slash.CommandQuit, slash.CommandExit:
		return tea.Quit
	}
	return nil
}

// startRun 在后台执行一次agent运行并把结果投递回事件循环。
func (m *Model) startRun() tea.Cmd {
	if m.engine == nil {
		m.pending = false
		m.err = errors.New("engine not configured")
		return nil
	}
	msgs := make([]agent.Message, 0, len(m.history)+1)
	if strings.TrimSpace(m.systemPrompt) != "" {
		msgs = append(msgs, agent.SystemMessage(m.systemPrompt))
	}
	msgs = append(msgs, m.history...)
	req := execution.Request{
		Messages:      msgs,
		Model:         m.modelName,
		Sampling:      m.sampling,
		MaxIterations: m.maxIterations,
	}
	engine := m.engine
	return func() tea.Msg {
		resp, err := engine.Run(context.Background(), req)
		return runDoneMsg{resp: resp, err: err}
	}
}

// applyRunResult 把一次运行的工具轨迹与最终回答写入展示与上下文。
func (m *Model) applyRunResult(resp *execution.Response, err error) {
	m.pending = false
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	if resp == nil {
		return
	}
	for _, block := range render.TrailBlocks(resp.ToolCalls) {
		m.transcript = append(m.transcript, agent.Message{Role: agent.RoleTool, Content: block})
	}
	m.lastAnswer = resp.Content
	if resp.Content != "" {
		m.history = append(m.history, agent.AssistantMessage(resp.Content))
	}
	m.transcript = append(m.transcript, agent.AssistantMessage(resp.Content))
	m.refreshTranscript()
}

// History 返回会话上下文副本。
func (m *Model) History() []agent.Message {
	return append([]agent.Message{}, m.history...)
}

func (m *Model) note(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	m.transcript = append(m.transcript, agent.Message{Role: agent.RoleTool, Content: text})
	m.refreshTranscript()
}

func (m *Model) setComposerText(text string) {
	m.textarea.SetValue(text)
	m.syncComposerHeight()
	m.syncSlash()
}

func (m *Model) resetComposer() {
	m.textarea.Reset()
	m.inputHist.ResetBrowsing()
	m.syncComposerHeight()
	m.syncSlash()
}

func (m *Model) syncSlash() {
	m.slash.SyncInput(slash.Input{
		Value:        m.textarea.Value(),
		CursorLine:   m.textarea.Line(),
		CursorColumn: m.textarea.LineInfo().CharOffset,
	})
}

func (m *Model) syncComposerHeight() {
	lines := strings.Count(m.textarea.Value(), "\n") + 1
	if lines < 1 {
		lines = 1
	}
	if lines > 6 {
		lines = 6
	}
	if m.textarea.Height() != lines {
		m.textarea.SetHeight(lines)
		m.resize(m.width, m.height)
	}
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.width = width
	m.height = height
	bannerHeight := lipgloss.Height(m.renderBanner())
	composerHeight := m.textarea.Height() + 3
	mainHeight := height - bannerHeight - composerHeight - 2
	if mainHeight < 5 {
		mainHeight = 5
	}
	contentHeight := mainHeight - 2
	if contentHeight < 3 {
		contentHeight = 3
	}
	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}
	m.viewport.Width = contentWidth
	m.viewport.Height = contentHeight
	m.textarea.SetWidth(width - 4)
	m.refreshTranscript()
}

func (m *Model) refreshTranscript() {
	m.transcriptDirty = true
}

func (m *Model) flushTranscript() {
	if !m.transcriptDirty {
		return
	}
	m.transcriptDirty = false
	stick := m.viewport.AtBottom()
	lines := render.LinesToStrings(render.RenderMessages(m.transcript, m.viewport.Width))
	if len(lines) == 0 {
		lines = []string{welcomeText}
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	if stick {
		m.viewport.GotoBottom()
	}
}

func (m *Model) finish(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	m.flushTranscript()
	return m, tea.Batch(cmds...)
}

func (m *Model) View() string {
	banner := m.renderBanner()
	chat := renderPane("", m.viewport.View(), m.width, m.viewport.Height)
	composer := renderPane("Prompt", m.textarea.View(), m.width, m.textarea.Height())
	status := m.statusLine()
	hints := renderHints(m.width)
	content := lipgloss.JoinVertical(lipgloss.Left, banner, chat, composer, status, hints)
	if m.slash.Open() {
		overlay := modalStyle.Render(m.slash.View(m.width - 6))
		content = lipgloss.JoinVertical(lipgloss.Left, content, overlay)
	}
	return content
}

func (m *Model) renderBanner() string {
	line1 := fmt.Sprintf(">_ agentkit (%s)", m.version)
	line2 := fmt.Sprintf("model:     %s   /model to change", m.modelName)
	line3 := "tools:     " + toolNamesLine(m.engine)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7D56F4")).
		Padding(0, 1).
		Width(maxInt(40, m.width)).
		Render(strings.Join([]string{line1, "", line2, line3}, "\n"))
}

func (m *Model) statusLine() string {
	parts := []string{fmt.Sprintf("Model: %s", m.modelName)}
	if m.pending {
		parts = append(parts, "Working… "+m.spin.View())
	}
	if m.err != nil {
		parts = append(parts, fmt.Sprintf("Error: %v", m.err))
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7D7A85")).
		Padding(0, 1).
		Width(maxInt(20, m.width)).
		Render(strings.Join(parts, " • "))
}

func renderPane(title string, body string, width int, height int) string {
	titleText := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Render(title)
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#5E6472")).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(width)
	}
	if height > 0 {
		totalHeight := height + 2
		if strings.TrimSpace(title) != "" {
			totalHeight++
		}
		style = style.Height(totalHeight)
	}
	content := body
	if strings.TrimSpace(title) != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, titleText, body)
	}
	return style.Render(content)
}

func renderHints(width int) string {
	hint := "Enter 发送 • Alt+Enter 换行 • ↑/↓ 历史 • PgUp/PgDn 滚动 • / 命令 • Ctrl+C 退出"
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7D7A85")).
		Padding(0, 1).
		Width(maxInt(20, width)).
		Render(hint)
}

var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1).
	BorderForeground(lipgloss.Color("#FFB454"))

func helpText(items []slash.Item) string {
	var sb strings.Builder
	sb.WriteString("Commands:")
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("\n  %-8s %s", item.DisplayName(), item.Description))
	}
	sb.WriteString("\nKeys: Enter send • Alt+Enter newline • ↑/↓ history • PgUp/PgDn scroll • Ctrl+C quit")
	return sb.String()
}

func toolListText(engine *execution.Engine) string {
	if engine == nil {
		return "no tools registered"
	}
	specs := engine.Registry().Specs()
	if len(specs) == 0 {
		return "no tools registered"
	}
	var sb strings.Builder
	sb.WriteString("Tools:")
	for _, spec := range specs {
		sb.WriteString(fmt.Sprintf("\n  %s: %s", spec.Name, spec.Description))
	}
	return sb.String()
}

func toolNamesLine(engine *execution.Engine) string {
	if engine == nil {
		return "none"
	}
	specs := engine.Registry().Specs()
	if len(specs) == 0 {
		return "none"
	}
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
	}
	return strings.Join(names, ", ")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
