package models

import "time"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// MessageStatus tracks the delivery of a user message. Assistant messages are always sent.
type MessageStatus string

const (
	MessageStatusPending MessageStatus = "pending"
	MessageStatusSent    MessageStatus = "sent"
	MessageStatusFailed  MessageStatus = "failed"
)

// Message is one entry of a chat session. It only lives in memory for the page that created it.
type Message struct {
	ID             string        `json:"id"`
	Role           MessageRole   `json:"role"`
	Content        string        `json:"content"`
	Timestamp      time.Time     `json:"timestamp"`
	Sources        []Source      `json:"sources,omitempty"`
	ProcessingTime *float64      `json:"processing_time,omitempty"`
	Status         MessageStatus `json:"status"`
}
