package tools

import (
	"context"
	"time"
)

// CurrentTimeTool 返回当前日期时间，支持可选的 IANA 时区参数。
type CurrentTimeTool struct{}

func (CurrentTimeTool) Name() string { return "get_current_time" }

func (CurrentTimeTool) Description() string {
	return "Get the current date and time in ISO format"
}

func (CurrentTimeTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"timezone": map[string]any{
				"type":        "string",
				"description": "Timezone name (e.g., 'UTC', 'Europe/Moscow')",
			},
		},
		"required": []string{},
	}
}

// Execute 在给定时区下取当前时间。时区名无法识别时回退 UTC，不报错。
func (CurrentTimeTool) Execute(_ context.Context, args map[string]any) (string, error) {
	loc := time.UTC
	if name, _ := args["timezone"].(string); name != "" {
		if parsed, err := time.LoadLocation(name); err == nil {
			loc = parsed
		}
	}
	return time.Now().In(loc).Format(time.RFC3339), nil
}
