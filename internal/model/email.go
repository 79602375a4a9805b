package model

import "time"

// QueuedEmail is a message waiting in the outgoing queue. SendAt in the past
// (or zero) means "send on the next dispatcher run".
type QueuedEmail struct {
	ID         int64     `json:"id"`
	Recipients string    `json:"recipients"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	SendAt     time.Time `json:"send_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// EmailMetrics are the per-send delivery metrics recorded with an analytics
// row. Delivery is stubbed, so these carry fixed placeholder numbers.
type EmailMetrics struct {
	Sent         int     `json:"sent"`
	OpensRate    float64 `json:"opens_rate"`
	ClicksRate   float64 `json:"clicks_rate"`
	Bounces      int     `json:"bounces"`
	Unsubscribes int     `json:"unsubscribes"`
}

// EmailAnalytics is a recorded send with its metrics.
type EmailAnalytics struct {
	ID             int64        `json:"id"`
	Subject        string       `json:"subject"`
	RecipientsType string       `json:"recipientsType"`
	SentDate       time.Time    `json:"sentDate"`
	Metrics        EmailMetrics `json:"metrics"`
}
