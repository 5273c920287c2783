package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a system message addressed to one account.
type Notification struct {
	ID        int64     `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
