package model

import (
	"encoding/json"
	"time"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// OutboxEvent is one assistant-activity record awaiting publication. The API
// process inserts these alongside executed actions; cmd/worker drains them to
// the message broker.
type OutboxEvent struct {
	ID           string          `bson:"id" json:"id"`
	EventType    string          `bson:"event_type" json:"event_type"`
	Payload      json.RawMessage `bson:"payload" json:"payload"`
	Status       OutboxStatus    `bson:"status" json:"status"`
	ErrorMessage string          `bson:"error_message,omitempty" json:"error_message,omitempty"`
	RetryCount   int             `bson:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `bson:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `bson:"processed_at,omitempty" json:"processed_at,omitempty"`
}

// ActionEventPayload is what gets published for every executed AI action.
type ActionEventPayload struct {
	UserID      string      `json:"user_id"`
	Ambulatorio Ambulatorio `json:"ambulatorio"`
	ActionType  ActionKind  `json:"action_type"`
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	OccurredAt  time.Time   `json:"occurred_at"`
}
