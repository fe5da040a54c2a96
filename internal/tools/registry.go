package tools

import (
	"context"
	"fmt"

	"agentkit/internal/agent"
)

// MaxTools 是单个注册表允许的工具数量上限。
const MaxTools = 64

// Registry 是按名称索引的工具注册表。
// 启动时注册完毕后只读，因此可以被并发的 agent 调用无锁共享。
// Specs 的输出保持注册顺序；同名重复注册后者生效，但保留最初的顺序位。
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry 创建注册表并依次注册给定工具，nil 会被跳过。
func NewRegistry(list ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(list))}
	for _, t := range list {
		if t == nil {
			continue
		}
		// 构造期注册失败属于编程错误。
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}

// DefaultRegistry 返回带内置工具（时钟与计算器）的注册表。
func DefaultRegistry() *Registry {
	return NewRegistry(CurrentTimeTool{}, CalculatorTool{})
}

// Register 按名称登记工具。同名后注册者覆盖先注册者，原顺序位不变。
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return fmt.Errorf("nil tool")
	}
	name := t.Name()
	if name == "" {
		return fmt.Errorf("tool name is empty")
	}
	if _, exists := r.tools[name]; !exists {
		if len(r.tools) >= MaxTools {
			return fmt.Errorf("tool registry is full (max %d)", MaxTools)
		}
		r.order = append(r.order, name)
	}
	r.tools[name] = t
	return nil
}

// Lookup 按名称查找工具。
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Get 按名称取工具，不存在时返回 *NotFoundError。
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return t, nil
}

// Len 返回已注册工具数。
func (r *Registry) Len() int { return len(r.tools) }

// Specs 按注册顺序返回全部工具定义，供网关向模型披露能力。
func (r *Registry) Specs() []agent.ToolSpec {
	out := make([]agent.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, SpecOf(r.tools[name]))
	}
	return out
}

// SpecsFor 返回指定名称子集的工具定义，未注册的名称返回 *NotFoundError。
func (r *Registry) SpecsFor(names ...string) ([]agent.ToolSpec, error) {
	out := make([]agent.ToolSpec, 0, len(names))
	for _, name := range names {
		t, ok := r.tools[name]
		if !ok {
			return nil, &NotFoundError{Name: name}
		}
		out = append(out, SpecOf(t))
	}
	return out, nil
}

// Execute 按名称执行工具，raw 为模型给出的原始 JSON 参数。
// 查不到返回 *NotFoundError；参数解析失败或执行失败统一包装为 *ExecutionError，
// 绝不向上暴露网关侧的错误类型。
func (r *Registry) Execute(ctx context.Context, name, raw string) (string, error) {
	t, err := r.Get(name)
	if err != nil {
		return "", err
	}
	args, err := DecodeArguments(raw)
	if err != nil {
		return "", &ExecutionError{Tool: name, Err: err}
	}
	result, err := t.Execute(ctx, args)
	if err != nil {
		return "", &ExecutionError{Tool: name, Err: err}
	}
	return result, nil
}
