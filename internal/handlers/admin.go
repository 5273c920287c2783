package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AnshRaj112/safespace-backend/internal/models"
)

// TempBanRequest is the body of a temporary ban.
type TempBanRequest struct {
	Days int `json:"days"`
}

// ListHiddenPosts returns the post review queue.
func (h *Handler) ListHiddenPosts(w http.ResponseWriter, r *http.Request) {
	h.listHidden(w, r, models.KindPost)
}

// ListHiddenComments returns the comment review queue.
func (h *Handler) ListHiddenComments(w http.ResponseWriter, r *http.Request) {
	h.listHidden(w, r, models.KindComment)
}

func (h *Handler) listHidden(w http.ResponseWriter, r *http.Request, kind models.ContentKind) {
	c := h.Feed.NormalizeCursor(cursorFrom(r))
	items, err := h.Admin.ListHidden(r.Context(), kind, c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"items": items, "has_more": len(items) == c.Limit})
}

// RestorePost makes a hidden post visible again.
func (h *Handler) RestorePost(w http.ResponseWriter, r *http.Request) {
	h.restore(w, r, models.KindPost, "Post restored")
}

// RestoreComment makes a hidden comment visible again.
func (h *Handler) RestoreComment(w http.ResponseWriter, r *http.Request) {
	h.restore(w, r, models.KindComment, "Comment restored.")
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request, kind models.ContentKind, message string) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Admin.Restore(r.Context(), models.ContentRef{Kind: kind, ID: id}); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"message": message})
}

// DeletePost removes a post with its comments, reports and reactions.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, models.KindPost, "Post deleted permanently.")
}

// DeleteComment removes a comment with its reports and reactions.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, models.KindComment, "Comment deleted permanently.")
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, kind models.ContentKind, message string) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Admin.Delete(r.Context(), models.ContentRef{Kind: kind, ID: id}); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"message": message})
}

func accountParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) accountAction(w http.ResponseWriter, r *http.Request, message string, act func(id uuid.UUID) (*models.Account, error)) {
	id, ok := accountParam(w, r)
	if !ok {
		return
	}
	account, err := act(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"message": message, "user": account})
}

// BanUser sets the permanent ban flag.
func (h *Handler) BanUser(w http.ResponseWriter, r *http.Request) {
	h.accountAction(w, r, "User banned successfully.", func(id uuid.UUID) (*models.Account, error) {
		return h.Admin.Ban(r.Context(), id)
	})
}

// UnbanUser lifts both kinds of ban.
func (h *Handler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	h.accountAction(w, r, "User unbanned successfully.", func(id uuid.UUID) (*models.Account, error) {
		return h.Admin.Unban(r.Context(), id)
	})
}

// TempBanUser bans a user for a number of days.
func (h *Handler) TempBanUser(w http.ResponseWriter, r *http.Request) {
	var req TempBanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.accountAction(w, r, "User temporarily banned.", func(id uuid.UUID) (*models.Account, error) {
		return h.Admin.TempBan(r.Context(), id, req.Days)
	})
}

// SetReadOnly puts a user in read-only mode.
func (h *Handler) SetReadOnly(w http.ResponseWriter, r *http.Request) {
	h.accountAction(w, r, "User set to read-only.", func(id uuid.UUID) (*models.Account, error) {
		return h.Admin.SetReadOnly(r.Context(), id, true)
	})
}

// RemoveReadOnly lifts read-only mode.
func (h *Handler) RemoveReadOnly(w http.ResponseWriter, r *http.Request) {
	h.accountAction(w, r, "Read-only removed.", func(id uuid.UUID) (*models.Account, error) {
		return h.Admin.SetReadOnly(r.Context(), id, false)
	})
}

// GetViolations returns the newest moderation audit entries.
func (h *Handler) GetViolations(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.Admin.RecentViolations(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"violations": list, "count": len(list)})
}
