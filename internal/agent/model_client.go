package agent

import (
	"context"
	"errors"
)

// ModelClient 定义模型网关接口：送入会话，拿回最终回答或一组工具调用请求。
// 实现不做重试，失败一律分类为 *GatewayError 交给调用方。
type ModelClient interface {
	Complete(ctx context.Context, prompt Prompt) (*Completion, error)
}

// Completion 是网关对一次调用的回复。Outcome 必为两种变体之一。
type Completion struct {
	ID           string
	Model        string
	Usage        Usage
	FinishReason FinishReason
	Outcome      Outcome
}

// Outcome 是封闭的二元结果：要么最终回答，要么一轮工具调用。
// 调用方通过类型断言分支，不做可选字段嗅探。
type Outcome interface {
	outcome()
}

// FinalAnswer 表示模型给出了最终文本回答。
type FinalAnswer struct {
	Text string
}

// ToolCallRound 表示模型请求执行一批工具。
// Text 是随调用一起给出的文字说明，可为空；Requests 保持模型返回顺序。
type ToolCallRound struct {
	Text     string
	Requests []ToolRequest
}

func (*FinalAnswer) outcome()   {}
func (*ToolCallRound) outcome() {}

// EchoClient is a fallback when no API key is available.
// 它永远直接回显最后一条消息，从不请求工具。
type EchoClient struct {
	Prefix string
}

func (c EchoClient) Complete(_ context.Context, prompt Prompt) (*Completion, error) {
	if len(prompt.Messages) == 0 {
		return nil, errors.New("no messages to echo")
	}
	last := prompt.Messages[len(prompt.Messages)-1]
	return &Completion{
		ID:           "echo",
		Model:        "echo",
		FinishReason: FinishStop,
		Outcome:      &FinalAnswer{Text: c.Prefix + last.Content},
	}, nil
}
