package logger

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// LLMMessage 表示一次请求中的对话消息。
type LLMMessage struct {
	Role    string
	Content string
}

// LLMToolCall 表示模型在响应中请求的一次工具调用。
type LLMToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// LLMLogger 负责输出与 LLM 交互的请求、响应与错误信息。
type LLMLogger interface {
	Request(model string, messages []LLMMessage)
	Response(model string, content string)
	ToolCalls(model string, calls []LLMToolCall)
	Error(model string, err error)
}

// LLMLog 是全局唯一的 LLM 日志器实例。
var LLMLog LLMLogger = NewLLMLogger(nil)

// GlobalLLMLogger 返回全局唯一的 LLM 日志实例。
func GlobalLLMLogger() LLMLogger {
	return LLMLog
}

// SetGlobalLLMLogger 覆盖全局 LLM 日志实例，传入 nil 将重置为默认实现。
func SetGlobalLLMLogger(logger LLMLogger) {
	if logger == nil {
		logger = NewLLMLogger(nil)
	}
	LLMLog = logger
}

// SetupLLMFile 将全局 LLM 日志定向到独立文件，条目为缩进 JSON。
// 返回文件 closer 与实际路径。
func SetupLLMFile(logPath string) (io.Closer, string, error) {
	f, resolved, err := openLogFile(logPath)
	if err != nil {
		return nil, "", err
	}
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{PrettyPrint: true})
	l.SetOutput(f)
	SetGlobalLLMLogger(NewLLMLogger(l))
	return f, resolved, nil
}

// StdLLMLogger 使用 logrus 输出日志。
type StdLLMLogger struct {
	logger *logrus.Entry
}

// NewLLMLogger 构造默认的 LLM 日志记录器。传入 nil 时复用全局 logger，
// 不改动其格式设置。
func NewLLMLogger(l *Logger) *StdLLMLogger {
	if l == nil {
		l = root()
	}
	return &StdLLMLogger{logger: logrus.NewEntry(l).WithField("component", "llm")}
}

// Request 记录一次请求的上下文。
func (l *StdLLMLogger) Request(model string, messages []LLMMessage) {
	l.printf(logrus.InfoLevel, "-> request model=%s messages=%d", model, len(messages))
	for i, msg := range messages {
		l.printf(logrus.InfoLevel, "-> message[%d] role=%s content=%s", i, msg.Role, sanitize(msg.Content))
	}
}

// Response 记录一次最终文本响应。
func (l *StdLLMLogger) Response(model string, content string) {
	l.printf(logrus.InfoLevel, "<- response model=%s text=%s", model, sanitize(content))
}

// ToolCalls 记录模型请求的工具调用清单。
func (l *StdLLMLogger) ToolCalls(model string, calls []LLMToolCall) {
	l.printf(logrus.InfoLevel, "<- tool_calls model=%s count=%d", model, len(calls))
	for i, call := range calls {
		l.printf(logrus.InfoLevel, "<- tool_call[%d] id=%s name=%s args=%s", i, call.ID, call.Name, sanitize(call.Arguments))
	}
}

// Error 记录请求错误。
func (l *StdLLMLogger) Error(model string, err error) {
	l.printf(logrus.ErrorLevel, "!! error model=%s err=%v", model, err)
}

// NoopLLMLogger 忽略所有日志输出。
type NoopLLMLogger struct{}

// NewNoopLLMLogger 创建一个不输出的记录器。
func NewNoopLLMLogger() NoopLLMLogger {
	return NoopLLMLogger{}
}

func (NoopLLMLogger) Request(model string, messages []LLMMessage) {}
func (NoopLLMLogger) Response(model string, content string)       {}
func (NoopLLMLogger) ToolCalls(model string, calls []LLMToolCall) {}
func (NoopLLMLogger) Error(model string, err error)               {}

// Request 记录一次 LLM 请求。
func Request(model string, messages []LLMMessage) {
	if LLMLog != nil {
		LLMLog.Request(model, messages)
	}
}

// Response 记录一次最终文本响应。
func Response(model string, content string) {
	if LLMLog != nil {
		LLMLog.Response(model, content)
	}
}

// ToolCalls 记录模型请求的工具调用清单。
func ToolCalls(model string, calls []LLMToolCall) {
	if LLMLog != nil {
		LLMLog.ToolCalls(model, calls)
	}
}

// Error 记录请求错误。
func Error(model string, err error) {
	if LLMLog != nil {
		LLMLog.Error(model, err)
	}
}

func (l *StdLLMLogger) printf(level logrus.Level, format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	if !l.logger.Logger.IsLevelEnabled(level) {
		return
	}

	msg := fmt.Sprintf(format, args...)
	caller := findCaller()
	entry := l.logger
	if caller != "" {
		entry = entry.WithField("caller", caller)
	}
	entry.Log(level, msg)
}

func sanitize(text string) string {
	text = strings.ReplaceAll(text, "\n", `\n`)
	text = strings.ReplaceAll(text, "\r", `\r`)
	return text
}

func findCaller() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.File != "" && !strings.Contains(frame.File, "llm.go") {
			return fmt.Sprintf("%s:%d", shortenFilePath(frame.File), frame.Line)
		}
		if !more {
			break
		}
	}
	return ""
}
