package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentKind tags which collection a piece of content lives in.
type ContentKind string

const (
	KindPost    ContentKind = "post"
	KindComment ContentKind = "comment"
)

// Valid reports whether k is a known content kind.
func (k ContentKind) Valid() bool {
	return k == KindPost || k == KindComment
}

// ContentRef identifies a post or a comment.
type ContentRef struct {
	Kind ContentKind `json:"type"`
	ID   int64       `json:"id"`
}

// Visibility is the hide/restore lifecycle of a piece of content.
type Visibility string

const (
	Visible Visibility = "visible"
	Hidden  Visibility = "hidden"
)

// VisibilityFromHidden maps the persisted is_hidden flag to a Visibility.
func VisibilityFromHidden(hidden bool) Visibility {
	if hidden {
		return Hidden
	}
	return Visible
}

// IsHidden reports whether v is Hidden.
func (v Visibility) IsHidden() bool {
	return v == Hidden
}

// AfterReport returns the visibility once the report count has become count.
// The second result is true only for the Visible -> Hidden transition, which is
// the single point where escalation may fire. Hidden stays Hidden regardless of count.
func (v Visibility) AfterReport(count, threshold int) (Visibility, bool) {
	if v == Hidden {
		return Hidden, false
	}
	if count >= threshold {
		return Hidden, true
	}
	return Visible, false
}

// Restore is the admin transition back to Visible; the caller resets the report count with it.
func (v Visibility) Restore() Visibility {
	return Visible
}

// Content is the part of a post or comment the moderation pipeline cares about.
type Content struct {
	Ref         ContentRef `json:"-"`
	AuthorID    uuid.UUID  `json:"author_id"`
	Body        string     `json:"content"`
	ReportCount int        `json:"report_count"`
	Visibility  Visibility `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PostMode is what the author asks of readers.
type PostMode string

const (
	ModeVent   PostMode = "vent"
	ModeAdvice PostMode = "advice"
)

// Valid reports whether m is a known post mode.
func (m PostMode) Valid() bool {
	return m == ModeVent || m == ModeAdvice
}

// Post is a mood-tagged top-level message.
type Post struct {
	Content
	MoodTag string   `json:"mood_tag"`
	Mode    PostMode `json:"mode"`
}

// Comment is a reply to a post.
type Comment struct {
	Content
	PostID int64 `json:"post_id"`
}

// ReviewNotice replaces the body of hidden content shown to its own author.
const ReviewNotice = "This content is under review by moderators."
