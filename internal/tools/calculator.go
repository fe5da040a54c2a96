package tools

import (
	"context"
	"fmt"
	"strconv"
)

// CalculatorTool 是四则运算计算器。
// 除零与未知运算按成功结果返回 "Error: ..." 文本，不作为 error 上抛。
type CalculatorTool struct{}

func (CalculatorTool) Name() string { return "calculator" }

func (CalculatorTool) Description() string {
	return "Perform basic arithmetic operations (add, subtract, multiply, divide)"
}

func (CalculatorTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"description": "The operation to perform",
				"enum":        []string{"add", "subtract", "multiply", "divide"},
			},
			"a": map[string]any{
				"type":        "number",
				"description": "First operand",
			},
			"b": map[string]any{
				"type":        "number",
				"description": "Second operand",
			},
		},
		"required": []string{"operation", "a", "b"},
	}
}

func (CalculatorTool) Execute(_ context.Context, args map[string]any) (string, error) {
	operation, err := stringArg(args, "operation")
	if err != nil {
		return "", err
	}
	a, err := numberArg(args, "a")
	if err != nil {
		return "", err
	}
	b, err := numberArg(args, "b")
	if err != nil {
		return "", err
	}

	var result float64
	switch operation {
	case "add":
		result = a + b
	case "subtract":
		result = a - b
	case "multiply":
		result = a * b
	case "divide":
		if b == 0 {
			return "Error: division by zero", nil
		}
		result = a / b
	default:
		return fmt.Sprintf("Error: unknown operation '%s'", operation), nil
	}
	return formatNumber(result), nil
}

// formatNumber 用最短形式输出，整数结果不带小数部分。
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
