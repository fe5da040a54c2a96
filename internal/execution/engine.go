package execution

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"agentkit/internal/agent"
	"agentkit/internal/logger"
	"agentkit/internal/tools"
)

// MaxToolCallsPerRound 限制单轮响应中被接受的工具调用数，
// 超出的请求按模型给出的顺序保留前N个，其余丢弃并告警。
const MaxToolCallsPerRound = 10

// 迭代预算耗尽时的合成响应。
const (
	exhaustedResponseID      = "max_iterations_reached"
	exhaustedResponseContent = "Maximum iterations reached without final answer"
)

// Options 定义引擎的可注入依赖。
type Options struct {
	Client   agent.ModelClient
	Registry *tools.Registry
}

// Engine 驱动模型网关与工具注册表完成有界迭代的agent循环。
// 单次 Run 内严格串行；多个 Run 之间相互独立，可并发调用。
type Engine struct {
	client   agent.ModelClient
	registry *tools.Registry
}

// NewEngine 构造执行引擎。未提供注册表时使用默认工具集。
func NewEngine(opts Options) *Engine {
	registry := opts.Registry
	if registry == nil {
		registry = tools.DefaultRegistry()
	}
	return &Engine{
		client:   opts.Client,
		registry: registry,
	}
}

// Registry 返回引擎使用的工具注册表。
func (e *Engine) Registry() *tools.Registry {
	return e.registry
}

// Run 执行agent循环：把会话发给模型，执行模型请求的工具并回填结果，
// 直到模型给出最终回答或迭代预算耗尽。迭代数按网关调用计数。
// 网关错误直接上抛；工具失败不终止循环。
func (e *Engine) Run(ctx context.Context, req Request) (*Response, error) {
	if e.client == nil {
		return nil, errors.New("model client not configured")
	}
	norm, err := req.normalize()
	if err != nil {
		return nil, err
	}
	conversation, err := agent.NewConversation(norm.Messages...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	specs := norm.Tools
	if len(specs) == 0 {
		specs = e.registry.Specs()
	}

	runLog := log.WithFields(logger.Fields{
		"run_id": uuid.NewString(),
		"model":  norm.Model,
	})
	runLog.WithFields(logger.Fields{
		"type":           "run.started",
		"messages":       conversation.Len(),
		"tools":          len(specs),
		"max_iterations": norm.MaxIterations,
	}).Info("agent run started")

	state := StateRunning
	var usage agent.Usage
	records := make([]ToolCallRecord, 0, 4)
	iterations := 0
	lastModel := norm.Model

	for iterations < norm.MaxIterations {
		if err := ctx.Err(); err != nil {
			runLog.WithError(err).WithFields(logger.Fields{
				"type":      "run.cancelled",
				"iteration": iterations,
			}).Warn("agent run cancelled")
			return nil, err
		}
		iterations++

		prompt := agent.Prompt{
			Model:      norm.Model,
			Messages:   conversation.Messages(),
			Tools:      specs,
			ToolChoice: norm.ToolChoice,
			Sampling:   norm.Sampling,
		}
		logger.Request(prompt.Model, llmMessages(prompt.Messages))

		completion, err := e.client.Complete(ctx, prompt)
		if err != nil {
			logger.Error(prompt.Model, err)
			runLog.WithError(err).WithFields(logger.Fields{
				"type":      "run.failed",
				"iteration": iterations,
			}).Error("model call failed")
			_ = advance(&state, StateFailed)
			return nil, err
		}

		usage = usage.Add(completion.Usage)
		if completion.Model != "" {
			lastModel = completion.Model
		}

		switch outcome := completion.Outcome.(type) {
		case *agent.FinalAnswer:
			logger.Response(completion.Model, outcome.Text)
			if err := advance(&state, StateCompleted); err != nil {
				return nil, err
			}
			runLog.WithFields(logger.Fields{
				"type":         "run.completed",
				"iterations":   iterations,
				"tool_calls":   len(records),
				"total_tokens": usage.TotalTokens,
			}).Info("agent run completed")
			return &Response{
				ID:           completion.ID,
				Model:        completion.Model,
				State:        state,
				Content:      outcome.Text,
				FinishReason: completion.FinishReason,
				Usage:        usage,
				ToolCalls:    records,
				Iterations:   iterations,
			}, nil
		case *agent.ToolCallRound:
			requests := outcome.Requests
			if len(requests) > MaxToolCallsPerRound {
				runLog.WithFields(logger.Fields{
					"type":      "tool_round.truncated",
					"requested": len(requests),
					"kept":      MaxToolCallsPerRound,
					"iteration": iterations,
				}).Warn("tool call overflow dropped")
				requests = requests[:MaxToolCallsPerRound]
			}
			logger.ToolCalls(completion.Model, llmToolCalls(requests))
			records, err = e.runToolRound(ctx, runLog, conversation, outcome.Text, requests, iterations, records)
			if err != nil {
				_ = advance(&state, StateFailed)
				return nil, err
			}
		default:
			_ = advance(&state, StateFailed)
			return nil, fmt.Errorf("unexpected completion outcome %T", completion.Outcome)
		}
	}

	if err := advance(&state, StateExhausted); err != nil {
		return nil, err
	}
	runLog.WithFields(logger.Fields{
		"type":         "run.exhausted",
		"iterations":   iterations,
		"tool_calls":   len(records),
		"total_tokens": usage.TotalTokens,
	}).Warn("iteration budget exhausted")
	return &Response{
		ID:           exhaustedResponseID,
		Model:        lastModel,
		State:        state,
		Content:      exhaustedResponseContent,
		FinishReason: agent.FinishMaxIterations,
		Usage:        usage,
		ToolCalls:    records,
		Iterations:   iterations,
	}, nil
}

// Chat 执行单次补全：不带工具、不循环、无审计日志。
func (e *Engine) Chat(ctx context.Context, req Request) (*Response, error) {
	if e.client == nil {
		return nil, errors.New("model client not configured")
	}
	norm, err := req.normalize()
	if err != nil {
		return nil, err
	}
	conversation, err := agent.NewConversation(norm.Messages...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	runLog := log.WithFields(logger.Fields{
		"run_id": uuid.NewString(),
		"model":  norm.Model,
	})
	runLog.WithFields(logger.Fields{
		"type":     "chat.started",
		"messages": conversation.Len(),
	}).Info("chat completion started")

	prompt := agent.Prompt{
		Model:    norm.Model,
		Messages: conversation.Messages(),
		Sampling: norm.Sampling,
	}
	logger.Request(prompt.Model, llmMessages(prompt.Messages))

	completion, err := e.client.Complete(ctx, prompt)
	if err != nil {
		logger.Error(prompt.Model, err)
		runLog.WithError(err).WithField("type", "chat.failed").Error("chat completion failed")
		return nil, err
	}

	var content string
	switch outcome := completion.Outcome.(type) {
	case *agent.FinalAnswer:
		content = outcome.Text
	case *agent.ToolCallRound:
		content = outcome.Text
	}
	logger.Response(completion.Model, content)
	runLog.WithFields(logger.Fields{
		"type":         "chat.completed",
		"total_tokens": completion.Usage.TotalTokens,
	}).Info("chat completion done")

	return &Response{
		ID:           completion.ID,
		Model:        completion.Model,
		State:        StateCompleted,
		Content:      content,
		FinishReason: completion.FinishReason,
		Usage:        completion.Usage,
		Iterations:   1,
	}, nil
}

// runToolRound 记录助手的工具调用轮次，逐个执行并把结果追加进会话。
// 请求清单按原样写入助手消息，保留关联ID。
func (e *Engine) runToolRound(ctx context.Context, runLog *logger.LogEntry, conversation *agent.Conversation, text string, requests []agent.ToolRequest, iteration int, records []ToolCallRecord) ([]ToolCallRecord, error) {
	assistant := agent.AssistantToolCalls(truncateForConversation(text), requests)
	if err := conversation.Append(assistant); err != nil {
		return records, fmt.Errorf("append assistant tool round: %w", err)
	}
	for _, call := range requests {
		record := e.executeToolCall(ctx, runLog, call, iteration)
		records = append(records, record)

		content := record.Result
		if record.Error != "" {
			content = "Error: " + record.Error
		}
		result := agent.ToolResultMessage(call.ID, call.Name, truncateForConversation(content))
		if err := conversation.Append(result); err != nil {
			return records, fmt.Errorf("append tool result: %w", err)
		}
	}
	return records, nil
}

// executeToolCall 执行单个工具请求并生成审计记录。
// 参数JSON损坏时审计记录的Arguments为空映射，错误本身由注册表上报。
func (e *Engine) executeToolCall(ctx context.Context, runLog *logger.LogEntry, call agent.ToolRequest, iteration int) ToolCallRecord {
	record := ToolCallRecord{
		ID:        call.ID,
		Name:      call.Name,
		Arguments: map[string]any{},
	}
	if args, err := tools.DecodeArguments(call.Arguments); err == nil {
		record.Arguments = args
	}

	started := time.Now()
	result, err := e.registry.Execute(ctx, call.Name, call.Arguments)
	record.Duration = time.Since(started)

	if err != nil {
		record.Error = err.Error()
		runLog.WithError(err).WithFields(logger.Fields{
			"type":         "tool.failed",
			"tool":         call.Name,
			"tool_call_id": call.ID,
			"iteration":    iteration,
		}).Warn("tool execution failed")
		return record
	}

	record.Result = result
	runLog.WithFields(logger.Fields{
		"type":           "tool.executed",
		"tool":           call.Name,
		"tool_call_id":   call.ID,
		"iteration":      iteration,
		"duration_ms":    record.Duration.Milliseconds(),
		"result_preview": previewForLog(sanitizeLogText(result), 120),
	}).Info("tool executed")
	return record
}

func llmMessages(messages []agent.Message) []logger.LLMMessage {
	out := make([]logger.LLMMessage, 0, len(messages))
	for _, msg := range messages {
		out = append(out, logger.LLMMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return out
}

func llmToolCalls(requests []agent.ToolRequest) []logger.LLMToolCall {
	out := make([]logger.LLMToolCall, 0, len(requests))
	for _, call := range requests {
		out = append(out, logger.LLMToolCall{ID: call.ID, Name: call.Name, Arguments: call.Arguments})
	}
	return out
}

// truncateForConversation 把超长文本截断到会话内容上限，避免回填时越界。
func truncateForConversation(text string) string {
	if len(text) <= agent.MaxContentLength {
		return text
	}
	return text[:agent.MaxContentLength]
}

func sanitizeLogText(text string) string {
	text = strings.ReplaceAll(text, "\n", `\n`)
	text = strings.ReplaceAll(text, "\r", `\r`)
	return text
}

func previewForLog(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	if limit < 3 {
		return text[:limit]
	}
	return text[:limit-3] + "..."
}
