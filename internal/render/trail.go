package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"agentkit/internal/execution"
)

// maxTrailLines 限制单条记录里结果正文的行数。
const maxTrailLines = 20

// ToolCallBlock 把一条工具调用审计记录格式化为纯文本块。
// 输出不含 ANSI 样式，由调用方决定如何上色与换行。
func ToolCallBlock(rec execution.ToolCallRecord) string {
	icon := "✓"
	if rec.Error != "" {
		icon = "✗"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s (%s)", icon, rec.Name, fmtDuration(rec.Duration)))
	sb.WriteString("\n  └ args: " + compactArgs(rec.Arguments))
	if rec.Error != "" {
		sb.WriteString("\n  └ error: " + flattenLine(rec.Error))
		return sb.String()
	}
	result := strings.TrimRight(rec.Result, "\n")
	if result == "" {
		return sb.String()
	}
	if strings.Contains(result, "\n") {
		sb.WriteString("\n  └ result:")
		sb.WriteString(indentTruncated(result, maxTrailLines))
		return sb.String()
	}
	sb.WriteString("\n  └ result: " + result)
	return sb.String()
}

// TrailBlocks 按记录顺序格式化整条调用轨迹。
func TrailBlocks(records []execution.ToolCallRecord) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, ToolCallBlock(rec))
	}
	return out
}

func compactArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func indentTruncated(text string, limit int) string {
	lines := strings.Split(text, "\n")
	truncated := false
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
		truncated = true
	}
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString("\n    " + strings.TrimRight(line, "\r"))
	}
	if truncated {
		sb.WriteString("\n    … (truncated)")
	}
	return sb.String()
}

func flattenLine(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}

func fmtDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}
