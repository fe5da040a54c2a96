package execution

import (
	"encoding/json"
	"time"

	"agentkit/internal/agent"
)

// Response 是一次agent运行的终态结果。
// Exhausted 时 ID/Content/FinishReason 为合成值，Usage 与审计日志仍然完整。
type Response struct {
	ID           string             `json:"id"`
	Model        string             `json:"model"`
	State        State              `json:"state"`
	Content      string             `json:"content"`
	FinishReason agent.FinishReason `json:"finish_reason"`
	Usage        agent.Usage        `json:"usage"`
	ToolCalls    []ToolCallRecord   `json:"tool_calls_made,omitempty"`
	Iterations   int                `json:"iterations"`
}

// ToolCallRecord 是单次工具执行的审计记录。
// Result 与 Error 恰有其一；Arguments 在参数JSON损坏时为空映射。
type ToolCallRecord struct {
	ID        string
	Name      string
	Arguments map[string]any
	Result    string
	Error     string
	Duration  time.Duration
}

// MarshalJSON 以毫秒输出耗时，其余字段按审计字段名序列化。
func (r ToolCallRecord) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID         string         `json:"tool_call_id"`
		Name       string         `json:"name"`
		Arguments  map[string]any `json:"arguments"`
		Result     string         `json:"result,omitempty"`
		Error      string         `json:"error,omitempty"`
		DurationMS float64        `json:"duration_ms"`
	}
	return json.Marshal(wire{
		ID:         r.ID,
		Name:       r.Name,
		Arguments:  r.Arguments,
		Result:     r.Result,
		Error:      r.Error,
		DurationMS: float64(r.Duration) / float64(time.Millisecond),
	})
}
