package agent

import (
	"fmt"
	"strings"
)

// ErrorKind 是网关错误的分类。
type ErrorKind string

const (
	ErrAuthentication ErrorKind = "authentication"
	ErrRateLimit      ErrorKind = "rate_limit"
	ErrInvalidRequest ErrorKind = "invalid_request"
	ErrTransient      ErrorKind = "transient"
	ErrEmptyResponse  ErrorKind = "empty_response"
)

// GatewayError 是模型网关的分类错误。对循环而言总是致命的：不重试、不续跑。
type GatewayError struct {
	Kind     ErrorKind
	Provider string
	Status   int
	Err      error
}

func (e *GatewayError) Error() string {
	msg := "model gateway error"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s gateway %s (status %d): %s", e.Provider, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s gateway %s: %s", e.Provider, e.Kind, msg)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// KindForStatus 按 HTTP 状态码分类。状态码缺失时传 0，得到 transient。
func KindForStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return ErrAuthentication
	case status == 429:
		return ErrRateLimit
	case status == 400 || status == 422:
		return ErrInvalidRequest
	default:
		return ErrTransient
	}
}

// KindForText 对错误文本做子串嗅探。
// 这是兜底启发式：provider 不暴露结构化错误码时才用，按最佳努力理解，
// 不构成契约。能拿到状态码时一律优先 KindForStatus。
func KindForText(text string) ErrorKind {
	s := strings.ToLower(text)
	switch {
	case strings.Contains(s, "401"), strings.Contains(s, "unauthorized"), strings.Contains(s, "authentication"):
		return ErrAuthentication
	case strings.Contains(s, "429"), strings.Contains(s, "rate limit"):
		return ErrRateLimit
	case strings.Contains(s, "400"), strings.Contains(s, "invalid"):
		return ErrInvalidRequest
	default:
		return ErrTransient
	}
}
