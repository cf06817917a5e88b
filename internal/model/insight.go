package model

import "time"

// Insight is an opaque generated observation from the remote insight
// service. The client only displays and dismisses insights; generation and
// ranking are entirely server-side.
type Insight struct {
	ID          int       `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Action      string    `json:"action,omitempty"`
	Amount      *float64  `json:"amount,omitempty"`
	Category    string    `json:"category,omitempty"`
	Priority    int       `json:"priority"`
	Dismissed   bool      `json:"dismissed"`
	CreatedAt   time.Time `json:"created_at"`
}
