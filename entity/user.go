package entity

import "time"

type User struct {
	TelegramId int64     `json:"telegram_id" db:"telegram_id"`
	Username   string    `json:"username" db:"username"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

const (
	CredStatusPendingKey    = "pending_key"
	CredStatusPendingSecret = "pending_secret"
	CredStatusActive        = "active"
)

// Credentials holds a user's ERPNext API key pair. Key and secret are kept
// sealed in the database and only opened right before an ERP call.
type Credentials struct {
	TelegramId int64     `json:"telegram_id" db:"telegram_id"`
	APIKey     string    `json:"api_key" db:"api_key"`
	APISecret  string    `json:"api_secret" db:"api_secret"`
	Status     string    `json:"status" db:"status"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

func (c *Credentials) Active() bool {
	return c != nil && c.Status == CredStatusActive && c.APIKey != "" && c.APISecret != ""
}

func (c *Credentials) StatusOrDefault() string {
	if c == nil || c.Status == "" {
		return CredStatusPendingKey
	}
	return c.Status
}
