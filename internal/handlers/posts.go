package handlers

import (
	"net/http"

	"github.com/AnshRaj112/safespace-backend/internal/middleware"
	"github.com/AnshRaj112/safespace-backend/internal/services"
)

// CreatePost publishes a post. Crisis content is answered with a support
// message and not stored.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in services.CreatePostInput
	if !decodeJSON(w, r, &in) {
		return
	}

	res, err := h.Posts.Create(r.Context(), middleware.AccountFrom(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if res.Crisis {
		writeJSON(w, http.StatusOK, envelope{"success": false, "crisis": true, "message": res.SupportMessage})
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"success": true, "post": postView(res.Item)})
}

// ListPosts is the public feed. The viewer is optional.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, err := h.Feed.Posts(r.Context(), middleware.AccountFrom(r.Context()), cursorFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"posts": page.Items, "has_more": page.HasMore})
}

// ListMyPosts lists the caller's own posts, hidden ones included.
func (h *Handler) ListMyPosts(w http.ResponseWriter, r *http.Request) {
	page, err := h.Feed.Authored(r.Context(), middleware.AccountFrom(r.Context()), cursorFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"posts": page.Items, "has_more": page.HasMore})
}

// CreateComment adds a comment to a visible post.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var in services.CreateCommentInput
	if !decodeJSON(w, r, &in) {
		return
	}

	res, err := h.Comments.Create(r.Context(), middleware.AccountFrom(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if res.Crisis {
		writeJSON(w, http.StatusOK, envelope{"success": false, "crisis": true, "message": res.SupportMessage})
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"success": true, "comment": commentView(res.Item)})
}

// ListComments returns the visible comments of a visible post.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	page, err := h.Feed.Comments(r.Context(), middleware.AccountFrom(r.Context()), postID, cursorFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"comments": page.Items, "has_more": page.HasMore})
}
