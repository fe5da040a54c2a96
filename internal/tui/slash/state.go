package slash

import (
	"sort"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// Input 表示当前文本与光标状态。
type Input struct {
	Value        string
	CursorLine   int
	CursorColumn int
}

// ActionKind 描述按键触发后的处理类型。
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionClose
	ActionInsert
	ActionSubmit
	ActionError
)

// Action 汇总一次按键或提交的处理结果。
type Action struct {
	Kind         ActionKind
	Command      Command
	NewValue     string
	CursorColumn int
	Args         string
	Message      string
}

// State 维护斜杠弹窗的匹配与选择状态。
type State struct {
	items    []Item
	matches  []match
	selected int
	open     bool
	input    parsedInput
	maxLines int
}

type match struct {
	item       Item
	highlights []int
	score      int
}

type parsedInput struct {
	firstLine string
	rest      string
	token     tokenInfo
}

type tokenInfo struct {
	found  bool
	active bool
	value  string
	end    int
	args   string
}

// NewState 构造斜杠弹窗状态机。maxLines<=0 时取默认高度。
func NewState(maxLines int) *State {
	if maxLines <= 0 {
		maxLines = 8
	}
	return &State{
		items:    builtinItems(),
		maxLines: maxLines,
	}
}

// Open 返回弹窗是否展示。
func (s *State) Open() bool {
	return s != nil && s.open
}

// SyncInput 根据最新文本同步过滤列表与选中项。
// 仅当光标仍停留在首行的斜杠令牌内时弹窗保持打开。
func (s *State) SyncInput(in Input) {
	if s == nil {
		return
	}
	s.input = parseInput(in)
	if !s.input.token.found {
		s.open = false
		s.matches = nil
		return
	}
	s.open = s.input.token.active && in.CursorLine == 0
	if !s.open {
		s.matches = nil
		return
	}
	s.matches = filterMatches(s.items, s.input.token.value)
	if s.selected >= len(s.matches) {
		s.selected = 0
	}
}

// HandleKey 处理弹窗打开时的键盘事件，返回对应动作。
func (s *State) HandleKey(msg string) (Action, bool) {
	if s == nil || !s.open {
		return Action{}, false
	}
	switch msg {
	case "up", "ctrl+p":
		if len(s.matches) == 0 {
			return Action{Kind: ActionClose}, true
		}
		s.selected--
		if s.selected < 0 {
			s.selected = len(s.matches) - 1
		}
		return Action{Kind: ActionNone}, true
	case "down", "ctrl+n":
		if len(s.matches) == 0 {
			return Action{Kind: ActionClose}, true
		}
		s.selected++
		if s.selected >= len(s.matches) {
			s.selected = 0
		}
		return Action{Kind: ActionNone}, true
	case "esc":
		s.open = false
		return Action{Kind: ActionClose}, true
	case "tab":
		if len(s.matches) == 0 {
			return Action{Kind: ActionError, Message: "未知命令，输入 / 查看可用命令"}, true
		}
		item := s.matches[s.selected].item
		return Action{
			Kind:         ActionInsert,
			NewValue:     insertValue(item.Command, s.input),
			CursorColumn: runeLen("/"+string(item.Command)) + 1,
		}, true
	case "enter":
		if len(s.matches) == 0 {
			return Action{Kind: ActionError, Message: "未知命令，输入 / 查看可用命令"}, true
		}
		item := s.matches[s.selected].item
		s.open = false
		return Action{Kind: ActionSubmit, Command: item.Command, Args: s.input.token.args}, true
	default:
		return Action{}, false
	}
}

// ResolveSubmit 按 Enter 行为解析完整输入，不依赖弹窗是否打开。
// 非斜杠输入返回 ActionNone，交由上层当普通消息处理。
func (s *State) ResolveSubmit(value string) Action {
	p := parseInput(Input{
		Value:        value,
		CursorLine:   0,
		CursorColumn: runeLen(firstLine(value)),
	})
	if !p.token.found || p.token.value == "" {
		return Action{Kind: ActionNone}
	}
	for _, item := range s.items {
		if strings.EqualFold(item.Token(), p.token.value) {
			return Action{Kind: ActionSubmit, Command: item.Command, Args: p.token.args}
		}
	}
	return Action{Kind: ActionError, Message: "未知命令，输入 / 查看可用命令"}
}

// Items 返回内置命令条目，/help 输出时复用。
func (s *State) Items() []Item {
	return append([]Item(nil), s.items...)
}

func filterMatches(items []Item, query string) []match {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		matches := make([]match, 0, len(items))
		for _, item := range items {
			matches = append(matches, match{item: item})
		}
		return matches
	}

	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, strings.ToLower(item.Token()))
	}
	results := fuzzy.Find(strings.ToLower(trimmed), keys)
	matches := make([]match, 0, len(results))
	for _, res := range results {
		matches = append(matches, match{
			item:       items[res.Index],
			highlights: res.MatchedIndexes,
			score:      res.Score,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score == matches[j].score {
			return matches[i].item.Token() < matches[j].item.Token()
		}
		return matches[i].score > matches[j].score
	})
	return matches
}

func insertValue(cmd Command, input parsedInput) string {
	token := "/" + string(cmd)
	args := strings.TrimSpace(input.token.args)
	if args != "" {
		return token + " " + args + input.rest
	}
	return token + " " + input.rest
}

func parseInput(in Input) parsedInput {
	first, rest := splitFirstLine(in.Value)
	return parsedInput{
		firstLine: first,
		rest:      rest,
		token:     locateToken([]rune(first), in.CursorColumn),
	}
}

func splitFirstLine(value string) (string, string) {
	if idx := strings.IndexByte(value, '\n'); idx >= 0 {
		return value[:idx], value[idx:]
	}
	return value, ""
}

func firstLine(value string) string {
	line, _ := splitFirstLine(value)
	return line
}

// locateToken 在首行里定位斜杠令牌。
// 令牌必须从行首开始；令牌内再次出现 '/' 视为普通文本。
func locateToken(runes []rune, cursor int) tokenInfo {
	if len(runes) == 0 || runes[0] != '/' {
		return tokenInfo{}
	}
	token := tokenInfo{found: true, end: len(runes)}
	for i := 1; i < len(runes); i++ {
		if unicode.IsSpace(runes[i]) {
			token.end = i
			break
		}
		if runes[i] == '/' {
			return tokenInfo{}
		}
	}
	token.value = string(runes[1:token.end])
	token.args = strings.TrimLeftFunc(string(runes[token.end:]), unicode.IsSpace)
	token.active = cursor <= token.end
	return token
}

func runeLen(text string) int {
	return len([]rune(text))
}
