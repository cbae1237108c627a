package client

import (
	"time"

	"github.com/google/uuid"
)

// Alert represents a security alert raised by the platform
type Alert struct {
	ID          int64     `json:"id"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"` // low, medium, high; other values are passed through
	Status      string    `json:"status"`   // open, closed, in review; other values are passed through
	Customer    string    `json:"customer"`
	Source      string    `json:"source"`
	SourceRef   string    `json:"source_ref"`
	Rule        string    `json:"rule"`
	Tags        string    `json:"tags"`
	References  string    `json:"references"`
	ClosureCode *string   `json:"closure_code,omitempty"`
	Date        string    `json:"date,omitempty"`
	CreatedBy   string    `json:"created_by"`
	UpdatedBy   string    `json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Comment is one entry of an alert's comment thread
type Comment struct {
	ID        int64  `json:"id"`
	AlertID   int64  `json:"alert_id"`
	CreatedAt string `json:"created_at"` // raw ISO-8601, formatted by the caller
	Email     string `json:"email"`
	Username  string `json:"username"`
	Text      string `json:"text"`
}

// Article is a scraped security news item
type Article struct {
	ID    uuid.UUID `json:"-"`
	Title string    `json:"title"`
	Link  string    `json:"link"`
}

// NewsResponse is the shape returned by the news scraper
type NewsResponse struct {
	Krebs      []Article `json:"krebs"`
	Threatpost []Article `json:"threatpost"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token string `json:"token"`
}
