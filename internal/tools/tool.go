package tools

import (
	"context"

	"agentkit/internal/agent"
)

// Tool 定义单个可注册能力的执行入口。
// Parameters 返回 JSON Schema 形式的参数描述；Execute 返回交给模型的文本结果。
// 实现可以做 I/O，必须尊重 ctx。
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// SpecOf 把工具转成暴露给模型的 ToolSpec。
func SpecOf(t Tool) agent.ToolSpec {
	return agent.ToolSpec{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
}
