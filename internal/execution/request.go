package execution

import (
	"errors"
	"fmt"

	"agentkit/internal/agent"
)

// 迭代预算：默认值与允许上限。
const (
	DefaultMaxIterations = 10
	MaxIterationsLimit   = 50
)

// ErrInvalidRequest 标记请求校验失败，可用 errors.Is 识别。
var ErrInvalidRequest = errors.New("invalid request")

// Request 描述一次agent运行的输入。
// Tools 为空时使用注册表中的全部工具；Model 为空时由 provider 取默认模型。
type Request struct {
	Messages      []agent.Message
	Tools         []agent.ToolSpec
	Model         string
	ToolChoice    agent.ToolChoice
	Sampling      agent.Sampling
	MaxIterations int
}

// normalize 校验请求并填充默认值，返回规整后的副本。
func (r Request) normalize() (Request, error) {
	if len(r.Messages) == 0 {
		return Request{}, fmt.Errorf("%w: at least one message required", ErrInvalidRequest)
	}
	if r.MaxIterations == 0 {
		r.MaxIterations = DefaultMaxIterations
	}
	if r.MaxIterations < 1 || r.MaxIterations > MaxIterationsLimit {
		return Request{}, fmt.Errorf("%w: max_iterations %d outside 1..%d", ErrInvalidRequest, r.MaxIterations, MaxIterationsLimit)
	}
	if r.ToolChoice == "" {
		r.ToolChoice = agent.ToolChoiceAuto
	}
	if !r.ToolChoice.Valid() {
		return Request{}, fmt.Errorf("%w: unknown tool_choice %q", ErrInvalidRequest, r.ToolChoice)
	}
	if r.Sampling.MaxTokens < 0 {
		return Request{}, fmt.Errorf("%w: max_tokens must not be negative", ErrInvalidRequest)
	}
	if r.Sampling.MaxTokens == 0 {
		r.Sampling.MaxTokens = agent.DefaultMaxTokens
	}
	if r.Sampling.Temperature == nil {
		temperature := agent.DefaultTemperature
		r.Sampling.Temperature = &temperature
	}
	return r, nil
}
