package agent

// ToolSpec 描述可供模型调用的工具定义，遵循 function 工具的通用 schema 约定。
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolChoice 控制模型能否/必须调用工具。
type ToolChoice string

const (
	ToolChoiceAuto ToolChoice = "auto"
	ToolChoiceAny  ToolChoice = "any"
	ToolChoiceNone ToolChoice = "none"
)

// Valid 报告取值是否为受支持的策略。
func (tc ToolChoice) Valid() bool {
	switch tc {
	case ToolChoiceAuto, ToolChoiceAny, ToolChoiceNone:
		return true
	}
	return false
}

// 采样参数缺省值，对所有provider生效。
const (
	DefaultMaxTokens   int64 = 1024
	DefaultTemperature       = 0.7
)

// Sampling 是一次模型调用的采样参数。
// 指针字段为 nil 表示不在请求中发送该参数，由 provider 取默认值。
type Sampling struct {
	MaxTokens   int64
	Temperature *float64
	TopP        *float64
	Seed        *int64
	SafePrompt  bool
}

// Prompt 代表一次模型调用的完整请求，包括模型、消息与工具配置。
type Prompt struct {
	Model      string
	Messages   []Message
	Tools      []ToolSpec
	ToolChoice ToolChoice
	Sampling   Sampling
}
