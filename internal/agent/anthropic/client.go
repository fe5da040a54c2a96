// Package anthropic 提供基于Anthropic Messages API的模型网关实现。
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"agentkit/internal/agent"
)

const providerName = "anthropic"

// DefaultModel 为未指定模型时的默认取值。
const DefaultModel = "claude-sonnet-4-5"

// Options Anthropic客户端配置选项
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client 实现agent.ModelClient接口，对接Anthropic Messages API
type Client struct {
	api   *anthropic.Client
	model string
}

// 确保Client实现了agent.ModelClient接口
var _ agent.ModelClient = (*Client)(nil)

// New 创建Anthropic客户端
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("missing ANTHROPIC_API_KEY")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		// 网关契约：不重试，失败直接上抛给调用方。
		option.WithMaxRetries(0),
	}
	if baseURL := normalizeBaseURL(opts.BaseURL); baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}

	client := anthropic.NewClient(reqOpts...)
	return &Client{api: &client, model: strings.TrimSpace(opts.Model)}, nil
}

// normalizeBaseURL 规范化BaseURL。SDK自身会拼接/v1路径，
// 因此这里去掉用户习惯性附带的/v1后缀。
func normalizeBaseURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	trimmed = strings.TrimRight(trimmed, "/")
	trimmed = strings.TrimSuffix(trimmed, "/v1")
	return trimmed
}

func (c *Client) resolveModel(model string) string {
	if m := strings.TrimSpace(model); m != "" {
		return m
	}
	if c.model != "" {
		return c.model
	}
	return DefaultModel
}

// Complete 发送一轮非流式补全请求并归一化结果。
func (c *Client) Complete(ctx context.Context, prompt agent.Prompt) (*agent.Completion, error) {
	params, err := c.buildParams(prompt)
	if err != nil {
		return nil, err
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	if msg == nil || len(msg.Content) == 0 {
		return nil, &agent.GatewayError{
			Kind:     agent.ErrEmptyResponse,
			Provider: providerName,
			Err:      errors.New("empty response from Anthropic API"),
		}
	}

	var (
		texts    []string
		requests []agent.ToolRequest
	)
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			texts = append(texts, b.Text)
		case anthropic.ToolUseBlock:
			args := string(b.Input)
			if strings.TrimSpace(args) == "" {
				args = "{}"
			}
			requests = append(requests, agent.ToolRequest{
				ID:        b.ID,
				Name:      b.Name,
				Arguments: args,
			})
		}
	}

	completion := &agent.Completion{
		ID:           msg.ID,
		Model:        string(msg.Model),
		FinishReason: finishReason(msg.StopReason),
		Usage: agent.Usage{
			PromptTokens:     msg.Usage.InputTokens,
			CompletionTokens: msg.Usage.OutputTokens,
			TotalTokens:      msg.Usage.InputTokens + msg.Usage.OutputTokens,
		},
	}
	text := strings.Join(texts, "")
	if len(requests) > 0 {
		completion.Outcome = &agent.ToolCallRound{Text: text, Requests: requests}
	} else {
		completion.Outcome = &agent.FinalAnswer{Text: text}
	}
	return completion, nil
}

func (c *Client) buildParams(prompt agent.Prompt) (anthropic.MessageNewParams, error) {
	system, messages, err := toMessageParams(prompt.Messages)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}

	maxTokens := prompt.Sampling.MaxTokens
	if maxTokens <= 0 {
		maxTokens = agent.DefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.resolveModel(prompt.Model)),
		MaxTokens: maxTokens,
		Messages:  messages,
	}
	if len(system) > 0 {
		params.System = system
	}
	// Messages API没有随机种子与safe_prompt参数，Seed和SafePrompt在此被忽略。
	if prompt.Sampling.Temperature != nil {
		params.Temperature = anthropic.Float(*prompt.Sampling.Temperature)
	}
	if prompt.Sampling.TopP != nil {
		params.TopP = anthropic.Float(*prompt.Sampling.TopP)
	}
	if len(prompt.Tools) > 0 {
		params.Tools = toToolParams(prompt.Tools)
		if choice, ok := toToolChoice(prompt.ToolChoice); ok {
			params.ToolChoice = choice
		}
	}
	return params, nil
}

// toMessageParams 把统一消息序列转换成Anthropic的system+messages结构。
// system消息单独成段；连续的工具结果合并进同一条user消息，
// Messages API要求同一轮的tool_result出现在同一条消息里。
func toMessageParams(messages []agent.Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam, error) {
	var system []anthropic.TextBlockParam
	var out []anthropic.MessageParam

	for i := 0; i < len(messages); i++ {
		msg := messages[i]
		switch msg.Role {
		case agent.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case agent.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case agent.RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
				continue
			}
			out = append(out, assistantWithToolUse(msg))
		case agent.RoleTool:
			var blocks []anthropic.ContentBlockParamUnion
			for ; i < len(messages) && messages[i].Role == agent.RoleTool; i++ {
				blocks = append(blocks, toolResultBlock(messages[i]))
			}
			i--
			out = append(out, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleUser,
				Content: blocks,
			})
		default:
			return nil, nil, &agent.GatewayError{
				Kind:     agent.ErrInvalidRequest,
				Provider: providerName,
				Err:      errors.New("unsupported message role: " + string(msg.Role)),
			}
		}
	}
	return system, out, nil
}

func assistantWithToolUse(msg agent.Message) anthropic.MessageParam {
	var blocks []anthropic.ContentBlockParamUnion
	if msg.Content != "" {
		blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
	}
	for _, call := range msg.ToolCalls {
		var input any
		if err := json.Unmarshal([]byte(call.Arguments), &input); err != nil || input == nil {
			input = map[string]any{}
		}
		blocks = append(blocks, anthropic.ContentBlockParamUnion{
			OfToolUse: &anthropic.ToolUseBlockParam{
				ID:    call.ID,
				Name:  call.Name,
				Input: input,
			},
		})
	}
	return anthropic.MessageParam{
		Role:    anthropic.MessageParamRoleAssistant,
		Content: blocks,
	}
}

func toolResultBlock(msg agent.Message) anthropic.ContentBlockParamUnion {
	return anthropic.ContentBlockParamUnion{
		OfToolResult: &anthropic.ToolResultBlockParam{
			ToolUseID: msg.ToolCallID,
			Content: []anthropic.ToolResultBlockParamContentUnion{
				{OfText: &anthropic.TextBlockParam{Text: msg.Content}},
			},
		},
	}
}

func toToolParams(specs []agent.ToolSpec) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			continue
		}
		tool := &anthropic.ToolParam{
			Name:        spec.Name,
			InputSchema: toInputSchema(spec.Parameters),
		}
		if spec.Description != "" {
			tool.Description = anthropic.String(spec.Description)
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: tool})
	}
	return out
}

// toInputSchema 把JSON Schema对象拆成Anthropic的input_schema字段。
func toInputSchema(parameters map[string]any) anthropic.ToolInputSchemaParam {
	schema := anthropic.ToolInputSchemaParam{}
	if parameters == nil {
		return schema
	}
	if props, ok := parameters["properties"]; ok {
		schema.Properties = props
	}
	if required, ok := parameters["required"]; ok {
		schema.Required = toStringSlice(required)
	}
	return schema
}

func toStringSlice(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func toToolChoice(choice agent.ToolChoice) (anthropic.ToolChoiceUnionParam, bool) {
	switch choice {
	case agent.ToolChoiceAuto:
		return anthropic.ToolChoiceUnionParam{OfAuto: &anthropic.ToolChoiceAutoParam{}}, true
	case agent.ToolChoiceAny:
		return anthropic.ToolChoiceUnionParam{OfAny: &anthropic.ToolChoiceAnyParam{}}, true
	case agent.ToolChoiceNone:
		return anthropic.ToolChoiceUnionParam{OfNone: &anthropic.ToolChoiceNoneParam{}}, true
	default:
		return anthropic.ToolChoiceUnionParam{}, false
	}
}

// finishReason 把stop_reason映射到统一的结束原因。
func finishReason(reason anthropic.StopReason) agent.FinishReason {
	switch reason {
	case anthropic.StopReasonEndTurn, anthropic.StopReasonStopSequence:
		return agent.FinishStop
	case anthropic.StopReasonToolUse:
		return agent.FinishToolCalls
	case anthropic.StopReasonMaxTokens:
		return agent.FinishLength
	default:
		return agent.FinishReason(reason)
	}
}

// wrapAPIError 把SDK错误归一化为GatewayError。
// 上下文取消与超时原样透传，由调用方识别。
func wrapAPIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &agent.GatewayError{
			Kind:     agent.KindForStatus(apiErr.StatusCode),
			Provider: providerName,
			Status:   apiErr.StatusCode,
			Err:      err,
		}
	}
	return &agent.GatewayError{
		Kind:     agent.KindForText(err.Error()),
		Provider: providerName,
		Err:      err,
	}
}
