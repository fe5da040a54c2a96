package agent

import (
	"errors"
	"fmt"
)

// 会话边界。超限的追加会被拒绝，迭代上限之外这是仅有的防失控约束。
const (
	MaxMessages      = 1000
	MaxContentLength = 32000
)

var errConversationFull = fmt.Errorf("conversation exceeds %d messages", MaxMessages)

// Conversation 是一次 agent 调用持有的有序消息序列。
// 循环期间只追加不修改；不跨调用共享，也不持久化。
type Conversation struct {
	messages []Message
}

// NewConversation 以给定消息起始会话，逐条做与 Append 相同的校验。
func NewConversation(msgs ...Message) (*Conversation, error) {
	c := &Conversation{messages: make([]Message, 0, len(msgs))}
	for i, msg := range msgs {
		if err := c.Append(msg); err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
	}
	return c, nil
}

// Append 校验并追加一条消息。
func (c *Conversation) Append(msg Message) error {
	if len(c.messages) >= MaxMessages {
		return errConversationFull
	}
	if err := validateMessage(msg); err != nil {
		return err
	}
	c.messages = append(c.messages, msg)
	return nil
}

// Messages 返回当前消息的快照副本，供网关调用使用。
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last 返回最后一条消息；会话为空时 ok 为 false。
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

func (c *Conversation) Len() int { return len(c.messages) }

func validateMessage(msg Message) error {
	if len(msg.Content) > MaxContentLength {
		return fmt.Errorf("message content exceeds %d characters", MaxContentLength)
	}
	switch msg.Role {
	case RoleSystem, RoleUser:
		if msg.Content == "" {
			return fmt.Errorf("%s message requires content", msg.Role)
		}
	case RoleAssistant:
		if msg.Content == "" && len(msg.ToolCalls) == 0 {
			return errors.New("assistant message requires content or tool calls")
		}
	case RoleTool:
		if msg.ToolCallID == "" || msg.Name == "" {
			return errors.New("tool message requires tool_call_id and name")
		}
	default:
		return fmt.Errorf("unknown role %q", msg.Role)
	}
	return nil
}
