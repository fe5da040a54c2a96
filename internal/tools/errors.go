package tools

import "fmt"

// NotFoundError 表示按名称找不到工具。它原样向上传播，不会被包装成执行错误。
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Tool '%s' not found", e.Name)
}

// ExecutionError 表示参数反序列化失败或执行器本身失败。
// 对循环不致命：错误文本会作为 tool 消息进入会话，让模型自行纠正。
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("Tool '%s' execution failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
