// Package slash 实现 REPL 输入框的斜杠命令弹窗：匹配、选择与渲染。
package slash

import "strings"

// Command 表示内置斜杠命令的标识符。
type Command string

const (
	CommandHelp  Command = "help"
	CommandTools Command = "tools"
	CommandModel Command = "model"
	CommandClear Command = "clear"
	CommandCopy  Command = "copy"
	CommandQuit  Command = "quit"
	CommandExit  Command = "exit"
)

// Item 代表弹窗中的一行条目。
type Item struct {
	Command     Command
	Description string
}

// Token 返回无前导斜杠的匹配键。
func (i Item) Token() string {
	return string(i.Command)
}

// DisplayName 返回带前缀斜杠的展示名称。
func (i Item) DisplayName() string {
	token := i.Token()
	if token == "" {
		return ""
	}
	if strings.HasPrefix(token, "/") {
		return token
	}
	return "/" + token
}

func builtinItems() []Item {
	return []Item{
		{Command: CommandHelp, Description: "查看快捷键与命令说明"},
		{Command: CommandTools, Description: "列出已注册的工具"},
		{Command: CommandModel, Description: "切换模型"},
		{Command: CommandClear, Description: "清空会话"},
		{Command: CommandCopy, Description: "复制最近一条回答"},
		{Command: CommandQuit, Description: "退出"},
		{Command: CommandExit, Description: "退出"},
	}
}
