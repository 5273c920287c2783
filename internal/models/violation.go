package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ViolationType string

const (
	ViolationProhibitedContent ViolationType = "prohibited_content"
	ViolationCrisis            ViolationType = "crisis"
	ViolationStrike            ViolationType = "strike"
	ViolationTempBan           ViolationType = "temp_ban"
)

// Violation is an entry in the moderation audit log kept in MongoDB.
type Violation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	// Account information
	AccountID string `bson:"account_id,omitempty" json:"account_id,omitempty"`
	IPAddress string `bson:"ip_address,omitempty" json:"ip_address,omitempty"`

	// Violation details
	Type        ViolationType `bson:"type" json:"type"`
	ContentKind ContentKind   `bson:"content_kind,omitempty" json:"content_kind,omitempty"`
	ContentID   int64         `bson:"content_id,omitempty" json:"content_id,omitempty"`
	Message     string        `bson:"message,omitempty" json:"message,omitempty"`

	// Action taken
	ActionTaken string `bson:"action_taken" json:"action_taken"` // "rejected", "support_shown", "strike", "temp_ban"
}
