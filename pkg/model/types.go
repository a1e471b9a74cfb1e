package model

import "time"

// Subscription tiers and their daily request limits.
const (
	TierFree    = "free"
	TierPremium = "premium"
	TierPro     = "pro"
)

// User holds quota counters for one account.
// DailyRequests is only meaningful while LastRequestDate is today; the quota
// guard resets it lazily on the first request of a new day.
type User struct {
	ID               string    `json:"id"`
	SubscriptionType string    `json:"subscriptionType"`
	DailyRequests    int       `json:"dailyRequests"`
	LastRequestDate  string    `json:"lastRequestDate"` // YYYY-MM-DD
	TotalRequests    int       `json:"totalRequests"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Session is one conversational identity (device id, anonymous client, ...).
// It owns the affect facts and the bounded chat history.
type Session struct {
	Key       string    `json:"key"`
	Facts     []byte    `json:"facts"` // JSON-encoded cag.Facts
	History   History   `json:"history"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message represents a single chat message
type Message struct {
	Role    string `json:"role"` // user|assistant
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryLimit caps the retained conversation window (10 exchanges).
const HistoryLimit = 20

// History is an ordered conversation log, oldest first.
type History []Message

// Append adds a turn at the tail and drops the oldest entries while the
// window exceeds HistoryLimit. Relative order of retained turns is preserved.
func (h *History) Append(role, content string) {
	*h = append(*h, Message{Role: role, Content: content})
	if n := len(*h); n > HistoryLimit {
		*h = (*h)[n-HistoryLimit:]
	}
}

// AsText renders the history as "role: content" lines in insertion order,
// for optional inclusion in prompts.
func (h History) AsText() string {
	var out string
	for i, m := range h {
		if i > 0 {
			out += "\n"
		}
		out += m.Role + ": " + m.Content
	}
	return out
}
