package models

import "time"

// Cursor is keyset pagination over descending content ids.
// LastSeenID == 0 starts from the newest item.
type Cursor struct {
	LastSeenID int64
	Limit      int
}

// PostFilter narrows a post listing. An empty Visibility matches both states.
type PostFilter struct {
	Cursor
	Visibility Visibility
}

// CommentFilter narrows a comment listing. PostID 0 spans all posts.
type CommentFilter struct {
	Cursor
	PostID     int64
	Visibility Visibility
}

// FeedItem is a post or comment enriched for one viewer.
type FeedItem struct {
	ID             int64          `json:"id"`
	Kind           ContentKind    `json:"type"`
	Content        string         `json:"content"`
	MoodTag        string         `json:"mood_tag,omitempty"`
	Mode           PostMode       `json:"mode,omitempty"`
	PostID         int64          `json:"post_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	Reactions      ReactionCounts `json:"reactions"`
	ViewerReaction ReactionType   `json:"viewer_reaction,omitempty"`
	ViewerReported bool           `json:"viewer_reported"`
	CommentCount   *int           `json:"comment_count,omitempty"`
	// Set only on the author's own listing.
	IsHidden bool `json:"is_hidden,omitempty"`
}

// FeedPage is one page of a feed.
type FeedPage struct {
	Items   []FeedItem `json:"items"`
	HasMore bool       `json:"has_more"`
}

// HiddenContent is an entry of the admin review queue.
type HiddenContent struct {
	ID          int64       `json:"id"`
	Kind        ContentKind `json:"type"`
	AuthorID    string      `json:"author_id"`
	Content     string      `json:"content"`
	ReportCount int         `json:"report_count"`
	MoodTag     string      `json:"mood_tag,omitempty"`
	PostID      int64       `json:"post_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
