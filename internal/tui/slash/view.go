package slash

import (
	"fmt"
	"strings"

	"agentkit/internal/render"

	"github.com/charmbracelet/lipgloss"
)

var (
	nameStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C4A1FF"))
	descStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EBCB8B"))
	selectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#2F2A3D"))
)

// View 渲染弹窗内容（不含外围边框）。
func (s *State) View(width int) string {
	if s == nil || !s.open {
		return ""
	}
	contentWidth := width
	if contentWidth <= 20 {
		contentWidth = 20
	}
	visible := s.visibleEntries(contentWidth)
	lines := []string{}
	for _, entry := range visible {
		for _, line := range entry.lines {
			if entry.selected {
				line = selectedStyle.Render(line)
			}
			lines = append(lines, line)
		}
	}
	return lipgloss.NewStyle().
		Width(contentWidth).
		Render(strings.Join(lines, "\n"))
}

type renderedEntry struct {
	lines    []string
	selected bool
	height   int
}

func (s *State) visibleEntries(contentWidth int) []renderedEntry {
	if len(s.matches) == 0 {
		return []renderedEntry{{
			lines:  []string{"no matches"},
			height: 1,
		}}
	}

	nameWidth, descWidth := computeColumnWidths(contentWidth, s.matches)
	entries := make([]renderedEntry, 0, len(s.matches))
	for idx, m := range s.matches {
		name := applyHighlights(m.item.DisplayName(), m.highlights, nameWidth)
		desc := m.item.Description
		if desc == "" {
			desc = "-"
		}
		descLines := render.WrapText(desc, descWidth)
		nameCell := lipgloss.NewStyle().Width(nameWidth).Render(nameStyle.Render(name))
		lines := make([]string, 0, len(descLines))
		for i, raw := range descLines {
			dl := descStyle.Render(raw)
			if i == 0 {
				lines = append(lines, fmt.Sprintf("%s  %s", nameCell, dl))
			} else {
				lines = append(lines, fmt.Sprintf("%s  %s", strings.Repeat(" ", lipgloss.Width(nameCell)), dl))
			}
		}
		entries = append(entries, renderedEntry{
			lines:    lines,
			height:   len(lines),
			selected: idx == s.selected,
		})
	}
	return clampByHeight(entries, s.maxLines, s.selected)
}

func computeColumnWidths(contentWidth int, matches []match) (int, int) {
	maxName := 0
	for _, m := range matches {
		if w := lipgloss.Width(m.item.DisplayName()); w > maxName {
			maxName = w
		}
	}
	if maxName < 10 {
		maxName = 10
	}
	if maxName > contentWidth-12 {
		maxName = contentWidth - 12
	}
	descWidth := contentWidth - maxName - 2
	if descWidth < 8 {
		descWidth = 8
	}
	return maxName, descWidth
}

// clampByHeight 裁剪条目使总高度不超过 maxLines，且保证选中项可见。
func clampByHeight(entries []renderedEntry, maxLines int, selected int) []renderedEntry {
	if maxLines <= 0 {
		return entries
	}
	start := 0
	for start < len(entries) {
		height := 0
		end := start
		for end < len(entries) && height+entries[end].height <= maxLines {
			height += entries[end].height
			end++
		}
		if selected < end {
			return entries[start:end]
		}
		start++
	}
	return []renderedEntry{entries[selected]}
}

func applyHighlights(name string, indexes []int, width int) string {
	if len(indexes) == 0 {
		return lipgloss.NewStyle().Width(width).Render(name)
	}
	runes := []rune(name)
	marked := map[int]bool{}
	for _, idx := range indexes {
		// 匹配键不含前导斜杠，展示名多出一个字符。
		marked[idx+1] = true
	}
	parts := make([]string, 0, len(runes))
	for i, r := range runes {
		ch := string(r)
		if marked[i] {
			parts = append(parts, highlightStyle.Render(ch))
			continue
		}
		parts = append(parts, ch)
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(parts, ""))
}
