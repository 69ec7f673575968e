package entity

import "time"

// CustomerCostReport is the result of attributing an invoice to a customer
// prefix.
type CustomerCostReport struct {
	Prefix      string         `json:"prefix"`
	Period      string         `json:"period"`
	Resources   []ResourceCost `json:"resources"`
	TotalCost   float64        `json:"total_cost"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Session is an authenticated identity service session.
type Session struct {
	Token     string    `json:"-"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
