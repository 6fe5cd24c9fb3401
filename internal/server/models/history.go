package models

import "time"

// Generation modes accepted by the explain flow.
const (
	ModeExplain  = "explain"
	ModeDebug    = "debug"
	ModeOptimize = "optimize"
	ModeComment  = "comment"
)

// GuestEmail is the sentinel identity used when authentication is disabled.
// It has no matching User record on purpose.
const GuestEmail = "guest"

// ValidMode reports whether m is one of the supported generation modes.
func ValidMode(m string) bool {
	switch m {
	case ModeExplain, ModeDebug, ModeOptimize, ModeComment:
		return true
	}
	return false
}

// HistoryRecord is one logged generation interaction. Records are appended
// newest-first and never mutated.
type HistoryRecord struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Language    string    `json:"language"`
	Mode        string    `json:"mode"`
	Code        string    `json:"code"`
	Explanation string    `json:"explanation"`
	CreatedAt   time.Time `json:"createdAt"`
}
