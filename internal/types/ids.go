// internal/types/ids.go
package types

import "github.com/google/uuid"

type SessionID string
type MessageID string
type AttachmentID string

func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

func NewMessageID() MessageID {
	return MessageID(uuid.New().String())
}

func NewAttachmentID() AttachmentID {
	return AttachmentID(uuid.New().String())
}
