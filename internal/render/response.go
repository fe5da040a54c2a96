package render

import (
	"fmt"
	"strings"

	"agentkit/internal/execution"
)

// Response 将一次运行的终态渲染成适合终端阅读的文本：
// 工具调用轨迹在前，回答正文居中，末尾一行元信息。
func Response(resp *execution.Response, width int) string {
	if resp == nil {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	sections := []string{}
	if len(resp.ToolCalls) > 0 {
		lines := []Line{}
		for i, block := range TrailBlocks(resp.ToolCalls) {
			if i > 0 {
				lines = append(lines, Line{})
			}
			lines = append(lines, ToolLines(block, width)...)
		}
		sections = append(sections, strings.Join(LinesToStrings(lines), "\n"))
	}

	if content := strings.TrimSpace(resp.Content); content != "" {
		lines := AssistantLines(content, width)
		sections = append(sections, strings.Join(LinesToStrings(lines), "\n"))
	}

	sections = append(sections, metaStyle.Render(metaLine(resp)))
	return strings.Join(sections, "\n\n")
}

func metaLine(resp *execution.Response) string {
	parts := []string{
		fmt.Sprintf("model %s", resp.Model),
		string(resp.State),
		fmt.Sprintf("iterations %d", resp.Iterations),
		fmt.Sprintf("tokens %d (prompt %d, completion %d)",
			resp.Usage.TotalTokens, resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
	}
	if len(resp.ToolCalls) > 0 {
		parts = append(parts, fmt.Sprintf("tool calls %d", len(resp.ToolCalls)))
	}
	return strings.Join(parts, " • ")
}
