package tui

import "strings"

// maxInputHistory 限制可回溯的输入条数，超出后淘汰最旧的。
const maxInputHistory = 100

// inputHistory 负责输入框的历史浏览（上下箭头）。
// cursor == len(entries) 表示停在"最新输入"位置，此时 draft 保存未提交的草稿。
type inputHistory struct {
	entries []string
	cursor  int
	draft   string
}

// Add 记录一条已提交的输入并重置浏览位置。
func (h *inputHistory) Add(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	h.entries = append(h.entries, text)
	if len(h.entries) > maxInputHistory {
		h.entries = h.entries[len(h.entries)-maxInputHistory:]
	}
	h.cursor = len(h.entries)
	h.draft = ""
}

// Browsing 返回是否正处在历史浏览中。
func (h *inputHistory) Browsing() bool {
	return h.cursor < len(h.entries)
}

// ResetBrowsing 退出浏览并丢弃草稿。
func (h *inputHistory) ResetBrowsing() {
	h.cursor = len(h.entries)
	h.draft = ""
}

// Prev 向更早的记录移动。首次进入浏览时把当前输入存为草稿。
func (h *inputHistory) Prev(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == len(h.entries) {
		h.draft = current
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next 向更新的记录移动，越过最新一条时还原草稿。
func (h *inputHistory) Next() (string, bool) {
	if !h.Browsing() {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.cursor], true
}
