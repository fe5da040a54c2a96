package mistral

import (
	"context"
	"errors"
	"strings"

	"agentkit/internal/agent"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const providerName = "mistral"

// Options 配置 Mistral 网关。
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client 通过 Mistral 的 OpenAI 兼容 chat completions 接口实现模型网关。
// 底层 SDK 客户端可跨并发调用复用；网关自身不做任何重试。
type Client struct {
	api   *openai.Client
	model string
}

// 确保Client实现了agent.ModelClient接口
var _ agent.ModelClient = (*Client)(nil)

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("missing MISTRAL_API_KEY")
	}
	base := normalizeBaseURL(opts.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	cfg := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithBaseURL(strings.TrimRight(base, "/")),
		// 网关契约：不重试，失败直接分类上抛。
		option.WithMaxRetries(0),
	}
	client := openai.NewClient(cfg...)

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		api:   &client,
		model: model,
	}, nil
}

func (c *Client) resolveModel(model string) string {
	if strings.TrimSpace(model) != "" {
		return model
	}
	return c.model
}

// Complete 发送一次会话，返回最终回答或一轮工具调用请求。
func (c *Client) Complete(ctx context.Context, prompt agent.Prompt) (*agent.Completion, error) {
	params := buildParams(prompt, c.resolveModel(prompt.Model))

	var opts []option.RequestOption
	if prompt.Sampling.SafePrompt {
		opts = append(opts, option.WithJSONSet("safe_prompt", true))
	}
	// Mistral 的原生字段叫 random_seed，不走 OpenAI 的 seed。
	if prompt.Sampling.Seed != nil {
		opts = append(opts, option.WithJSONSet("random_seed", *prompt.Sampling.Seed))
	}

	resp, err := c.api.Chat.Completions.New(ctx, params, opts...)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, &agent.GatewayError{
			Kind:     agent.ErrEmptyResponse,
			Provider: providerName,
			Err:      errors.New("empty response from Mistral API"),
		}
	}

	choice := resp.Choices[0]
	completion := &agent.Completion{
		ID:           resp.ID,
		Model:        resp.Model,
		FinishReason: agent.FinishReason(choice.FinishReason),
		Usage: agent.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	if calls := choice.Message.ToolCalls; len(calls) > 0 {
		requests := make([]agent.ToolRequest, 0, len(calls))
		for _, call := range calls {
			requests = append(requests, agent.ToolRequest{
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			})
		}
		completion.Outcome = &agent.ToolCallRound{
			Text:     choice.Message.Content,
			Requests: requests,
		}
		return completion, nil
	}

	completion.Outcome = &agent.FinalAnswer{Text: choice.Message.Content}
	return completion, nil
}

func buildParams(prompt agent.Prompt, model string) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: toChatMessages(prompt.Messages),
	}

	sampling := prompt.Sampling
	if sampling.MaxTokens > 0 {
		params.MaxTokens = openai.Int(sampling.MaxTokens)
	}
	if sampling.Temperature != nil {
		params.Temperature = openai.Float(*sampling.Temperature)
	}
	if sampling.TopP != nil {
		params.TopP = openai.Float(*sampling.TopP)
	}

	if len(prompt.Tools) > 0 {
		params.Tools = toChatTools(prompt.Tools)
		if choice := prompt.ToolChoice; choice != "" {
			// Mistral 接受 auto/any/none，原样透传。
			params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
				OfAuto: openai.String(string(choice)),
			}
		}
	}
	return params
}

func toChatMessages(msgs []agent.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case agent.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case agent.RoleAssistant:
			if len(msg.ToolCalls) > 0 {
				out = append(out, assistantWithToolCalls(msg))
				continue
			}
			out = append(out, openai.AssistantMessage(msg.Content))
		case agent.RoleTool:
			out = append(out, openai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

// assistantWithToolCalls 重建携带 tool_calls 的 assistant 消息，
// 调用 ID 必须原样保留，后续 tool 消息靠它对账。
func assistantWithToolCalls(msg agent.Message) openai.ChatCompletionMessageParamUnion {
	calls := make([]openai.ChatCompletionMessageToolCallUnionParam, 0, len(msg.ToolCalls))
	for _, call := range msg.ToolCalls {
		calls = append(calls, openai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
				ID: call.ID,
				Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			},
		})
	}
	assistant := openai.ChatCompletionAssistantMessageParam{ToolCalls: calls}
	if msg.Content != "" {
		assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
			OfString: openai.String(msg.Content),
		}
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
}

func toChatTools(specs []agent.ToolSpec) []openai.ChatCompletionToolUnionParam {
	tools := make([]openai.ChatCompletionToolUnionParam, 0, len(specs))
	for _, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			continue
		}
		fn := shared.FunctionDefinitionParam{
			Name:       name,
			Parameters: spec.Parameters,
		}
		if desc := strings.TrimSpace(spec.Description); desc != "" {
			fn.Description = openai.String(desc)
		}
		tools = append(tools, openai.ChatCompletionToolUnionParam{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: fn,
			},
		})
	}
	return tools
}

// wrapAPIError 把 SDK 错误分类成 *agent.GatewayError。
// 有结构化状态码时优先用状态码；拿不到再对错误文本做子串嗅探。
// 上下文取消原样透传，不算网关故障。
func wrapAPIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr != nil {
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
