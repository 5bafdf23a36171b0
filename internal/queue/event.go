// Package queue defines the change events exchanged over the message
// broker and the consumer that records them.
package queue

import "time"

// Actions carried by ChangeEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeEvent is published after a successful write on a resource.  It
// holds enough for a downstream consumer to log or audit the change without
// reading the primary database.  RowsAffected is what the store reported,
// so an update or delete of an unknown code is visible as 0.
type ChangeEvent struct {
	Resource     string `json:"resource"`
	Action       string `json:"action"`
	Code         string `json:"code"`
	RowsAffected int64  `json:"rows_affected"`
	OccurredAt   string `json:"occurred_at"`
}

// NewChangeEvent stamps an event with the current UTC time.
func NewChangeEvent(resource, action, code string, rows int64) ChangeEvent {
	return ChangeEvent{
		Resource:     resource,
		Action:       action,
		Code:         code,
		RowsAffected: rows,
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	}
}
