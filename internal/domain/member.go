package domain

// Tier is a Ghost membership tier as reported by the members API.
type Tier struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Active bool   `json:"active"`
}

// Member is the authenticated identity owned by Ghost. It is fetched fresh on
// every request from the session cookies and never persisted here.
type Member struct {
	ID               string   `json:"id"`
	UUID             string   `json:"uuid"`
	Email            string   `json:"email"`
	Name             string   `json:"name"`
	Firstname        string   `json:"firstname"`
	AvatarImage      string   `json:"avatar_image"`
	Subscribed       bool     `json:"subscribed"`
	Paid             bool     `json:"paid"`
	CreatedAt        string   `json:"created_at"`
	LastSeenAt       string   `json:"last_seen_at"`
	EmailCount       int      `json:"email_count"`
	EmailOpenedCount int      `json:"email_opened_count"`
	EmailOpenRate    *float64 `json:"email_open_rate"`
	Status           string   `json:"status"`
	Tiers            []Tier   `json:"tiers"`
}
