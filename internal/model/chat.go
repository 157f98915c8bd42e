package model

import (
	"time"
)

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	ID          string      `bson:"id" json:"id"`
	SessionID   string      `bson:"session_id" json:"session_id"`
	UserID      string      `bson:"user_id" json:"user_id"`
	Ambulatorio Ambulatorio `bson:"ambulatorio" json:"ambulatorio"`
	Role        ChatRole    `bson:"role" json:"role"`
	Content     string      `bson:"content" json:"content"`
	Timestamp   time.Time   `bson:"timestamp" json:"timestamp"`
}

type ChatRequest struct {
	Message     string      `json:"message" binding:"required"`
	SessionID   string      `json:"session_id"`
	Ambulatorio Ambulatorio `json:"ambulatorio" binding:"required"`
}

type ChatResponse struct {
	Response        string        `json:"response"`
	SessionID       string        `json:"session_id"`
	ActionPerformed *ActionResult `json:"action_performed,omitempty"`
}

// ChatSession is the per-session summary for the history sidebar.
type ChatSession struct {
	SessionID    string    `bson:"_id" json:"session_id"`
	LastMessage  string    `bson:"last_message" json:"last_message"`
	LastActivity time.Time `bson:"last_activity" json:"last_activity"`
	Messages     int64     `bson:"messages" json:"messages"`
}
