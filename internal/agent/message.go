package agent

// Role 表示会话中一条消息的角色。
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolRequest 是模型在一次响应中请求的单次工具调用。
// ID 在同一次响应内唯一，用于同后续 tool 消息对账；
// Arguments 保留模型给出的原始 JSON 文本，解析推迟到执行时。
type ToolRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message 是会话中的一轮。
// 约定：assistant 消息在请求工具时必须原样携带 ToolCalls；
// tool 消息必须同时带 ToolCallID 与 Name，指回它回应的那次请求。
type Message struct {
	Role       Role          `json:"role"`
	Content    string        `json:"content"`
	ToolCalls  []ToolRequest `json:"tool_calls,omitempty"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
	Name       string        `json:"name,omitempty"`
}

// SystemMessage 构造 system 消息。
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage 构造 user 消息。
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage 构造纯文本 assistant 消息。
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// AssistantToolCalls 构造携带工具调用的 assistant 消息。
// content 可以为空：模型有时只给调用不给文字。
func AssistantToolCalls(content string, calls []ToolRequest) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: calls}
}

// ToolResultMessage 构造回应某次工具调用的 tool 消息。
func ToolResultMessage(callID, name, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID, Name: name}
}

// Usage 是一次模型调用的 token 计数。
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// Add 返回两次用量的逐项和，跨迭代累加时使用。
func (u Usage) Add(v Usage) Usage {
	return Usage{
		PromptTokens:     u.PromptTokens + v.PromptTokens,
		CompletionTokens: u.CompletionTokens + v.CompletionTokens,
		TotalTokens:      u.TotalTokens + v.TotalTokens,
	}
}

// FinishReason 标记一次模型响应结束的原因。
// 除下列常量外，网关会把 provider 报告的原始值原样透传。
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishToolCalls     FinishReason = "tool_calls"
	FinishLength        FinishReason = "length"
	FinishMaxIterations FinishReason = "max_iterations"
)
