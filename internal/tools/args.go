package tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeArguments 解析模型给出的原始参数 JSON。
// 空串与 "null" 视作空参数集；顶层必须是对象。
func DecodeArguments(raw string) (map[string]any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
		return nil, fmt.Errorf("invalid arguments JSON: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", key, raw)
	}
	return s, nil
}

// numberArg 接受 JSON 解码出的 float64，也容忍 Go 调用方直接传整数。
func numberArg(args map[string]any, key string) (float64, error) {
	raw, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing required argument %q", key)
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("argument %q is not a number: %w", key, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("argument %q must be a number, got %T", key, raw)
	}
}
