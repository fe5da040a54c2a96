package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
// 未知键与无法解析的取值直接跳过。
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "provider":
			cfg.Provider = val
		case "model":
			cfg.Model = val
		case "mistral.api_key":
			cfg.Mistral.APIKey = val
		case "mistral.base_url":
			cfg.Mistral.BaseURL = val
		case "anthropic.api_key":
			cfg.Anthropic.APIKey = val
		case "anthropic.base_url":
			cfg.Anthropic.BaseURL = val
		case "agent.max_iterations":
			if n, err := strconv.Atoi(val); err == nil {
				cfg.Agent.MaxIterations = n
			}
		case "agent.max_tokens":
			if n, err := strconv.ParseInt(val, 10, 64); err == nil {
				cfg.Agent.MaxTokens = n
			}
		case "agent.temperature":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				cfg.Agent.Temperature = &f
			}
		case "agent.safe_prompt":
			if b, err := strconv.ParseBool(val); err == nil {
				cfg.Agent.SafePrompt = b
			}
		case "log.level":
			cfg.Log.Level = val
		case "log.dir":
			cfg.Log.Dir = val
		case "log.llm_log":
			if b, err := strconv.ParseBool(val); err == nil {
				cfg.Log.LLMLog = b
			}
		}
	}
	return cfg
}
