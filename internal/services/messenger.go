package services

import "context"

// ParseMode selects outbound message formatting
type ParseMode string

const (
	ParseModeNone ParseMode = ""
	ParseModeHTML ParseMode = "HTML"
)

// Messenger is the outbound send capability. Implementations may fail per
// message; callers catch and continue.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, mode ParseMode) error
}

// AdminChecker is the chat platform's is-admin predicate, consumed by the
// command layer
type AdminChecker interface {
	IsChatAdmin(ctx context.Context, chatID, userID int64) (bool, error)
}
