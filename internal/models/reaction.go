package models

import (
	"time"

	"github.com/google/uuid"
)

// ReactionType is one of the fixed reactions a reader can leave.
type ReactionType string

const (
	ReactionRelate  ReactionType = "relate"
	ReactionAlone   ReactionType = "alone"
	ReactionHelpful ReactionType = "helpful"
	ReactionSupport ReactionType = "support"
)

// ReactionTypes lists every valid reaction in display order.
var ReactionTypes = []ReactionType{ReactionRelate, ReactionAlone, ReactionHelpful, ReactionSupport}

// Valid reports whether t is in the fixed reaction enum.
func (t ReactionType) Valid() bool {
	for _, rt := range ReactionTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// Reaction is the single live reaction of an account on a piece of content.
type Reaction struct {
	Target    ContentRef
	AccountID uuid.UUID
	Type      ReactionType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReactionCounts aggregates reactions per type for one piece of content.
type ReactionCounts map[ReactionType]int

// Zeroed returns counts with every reaction type present.
func (c ReactionCounts) Zeroed() ReactionCounts {
	out := make(ReactionCounts, len(ReactionTypes))
	for _, rt := range ReactionTypes {
		out[rt] = c[rt]
	}
	return out
}

// ReactionAction is the outcome of applying a reaction.
type ReactionAction string

const (
	ReactionCreated ReactionAction = "created"
	ReactionRemoved ReactionAction = "removed"
	ReactionUpdated ReactionAction = "updated"
)

// ReactionResult reports which transition applyReaction took.
type ReactionResult struct {
	Action ReactionAction `json:"action"`
	Type   ReactionType   `json:"type,omitempty"`
}
