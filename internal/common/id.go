package common

import (
	"github.com/google/uuid"
)

// NewViewID generates a unique id for a mounted page instance
// Format: view_<uuid>
func NewViewID() string {
	return "view_" + uuid.New().String()
}

// NewMessageID generates a unique chat message id
func NewMessageID() string {
	return "msg_" + uuid.New().String()
}
