package render

import (
	"strings"

	"agentkit/internal/agent"

	"github.com/charmbracelet/lipgloss"
)

var (
	userPrefixStyle      = lipgloss.NewStyle().Faint(true).Bold(true)
	userIndentStyle      = lipgloss.NewStyle().Faint(true)
	assistantPrefixStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	assistantIndentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	toolStyle            = lipgloss.NewStyle().Faint(true)
	metaStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7A85"))
)

// RenderMessages 将消息列表渲染为带样式的行。
// tool 角色的消息按预格式化块处理，其余按词级换行。
func RenderMessages(msgs []agent.Message, width int) []Line {
	if width <= 0 {
		width = 80
	}
	lines := []Line{}
	for _, msg := range msgs {
		content := strings.TrimRight(msg.Content, "\n")
		switch msg.Role {
		case agent.RoleUser:
			lines = append(lines, UserLines(content, width)...)
		case agent.RoleAssistant:
			lines = append(lines, AssistantLines(content, width)...)
		case agent.RoleTool:
			lines = append(lines, ToolLines(content, width)...)
		default:
			lines = append(lines, styledLines(WrapText(content, width), lipgloss.Style{})...)
		}
	}
	return lines
}

// UserLines 渲染用户消息：`› ` 前缀，前后各留一个空行。
func UserLines(content string, width int) []Line {
	wrapWidth := width - 2
	if wrapWidth < 1 {
		wrapWidth = width
	}
	body := styledLines(WrapText(content, wrapWidth), lipgloss.Style{})
	prefixed := PrefixLines(body,
		Span{Text: "› ", Style: userPrefixStyle},
		Span{Text: "  ", Style: userIndentStyle})
	lines := make([]Line, 0, len(prefixed)+2)
	lines = append(lines, Line{})
	lines = append(lines, prefixed...)
	lines = append(lines, Line{})
	return lines
}

// AssistantLines 渲染助手消息：`• ` 前缀。
func AssistantLines(content string, width int) []Line {
	wrapWidth := width - 2
	if wrapWidth < 1 {
		wrapWidth = width
	}
	body := styledLines(WrapText(content, wrapWidth), lipgloss.Style{})
	prefixed := PrefixLines(body,
		Span{Text: "• ", Style: assistantPrefixStyle},
		Span{Text: "  ", Style: assistantIndentStyle})
	if len(prefixed) == 0 {
		prefixed = []Line{{Spans: []Span{{Text: "• ", Style: assistantPrefixStyle}}}}
	}
	return prefixed
}

// ToolLines 渲染工具调用块。块自带缩进，保留空格做硬切。
func ToolLines(content string, width int) []Line {
	wrapWidth := width - 2
	if wrapWidth < 1 {
		wrapWidth = width
	}
	out := []Line{}
	for _, raw := range strings.Split(content, "\n") {
		for _, l := range WrapPreformatted(raw, wrapWidth) {
			out = append(out, Line{Spans: []Span{{Text: l, Style: toolStyle}}})
		}
	}
	if len(out) == 0 {
		return []Line{{}}
	}
	return out
}
