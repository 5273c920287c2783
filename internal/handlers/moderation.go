package handlers

import (
	"net/http"

	"github.com/AnshRaj112/safespace-backend/internal/middleware"
	"github.com/AnshRaj112/safespace-backend/internal/models"
	"github.com/AnshRaj112/safespace-backend/internal/services"
)

// ReactionRequest is the body of a reaction toggle.
type ReactionRequest struct {
	Type models.ReactionType `json:"type"`
}

// ReportRequest is the body of a community report.
type ReportRequest struct {
	Type     models.ContentKind `json:"type"`
	TargetID int64              `json:"targetId"`
	Reason   string             `json:"reason"`
}

// ReactToPost toggles the caller's reaction on a post.
func (h *Handler) ReactToPost(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, models.KindPost)
}

// ReactToComment toggles the caller's reaction on a comment.
func (h *Handler) ReactToComment(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, models.KindComment)
}

func (h *Handler) react(w http.ResponseWriter, r *http.Request, kind models.ContentKind) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req ReactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account := middleware.AccountFrom(r.Context())
	if err := services.RequireWritable(account); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.Reactions.ApplyReaction(r.Context(), models.ContentRef{Kind: kind, ID: id}, account.ID, req.Type)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body := envelope{"action": res.Action}
	if res.Type != "" {
		body["type"] = res.Type
	}
	writeOK(w, body)
}

// FileReport records a report against a post or comment.
func (h *Handler) FileReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account := middleware.AccountFrom(r.Context())
	out, err := h.Reports.FileReport(r.Context(), account.ID, req.Type, req.TargetID, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{
		"message":      "Reported successfully.",
		"report_count": out.ReportCount,
		"hidden":       out.Hidden,
	})
}
