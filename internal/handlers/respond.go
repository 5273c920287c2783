package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/AnshRaj112/safespace-backend/internal/models"
	"github.com/AnshRaj112/safespace-backend/internal/services"
)

const maxBodyBytes = 64 << 10

// envelope is the JSON body shape shared by every endpoint.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, body envelope) {
	body["success"] = true
	writeJSON(w, http.StatusOK, body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": status < 400, "message": message})
}

// writeError maps service errors to HTTP. Anything unrecognised is logged and
// surfaces as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve     *services.ValidationError
		banned *services.TemporarilyBannedError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, envelope{"success": false, "message": ve.Message, "field": ve.Field})
	case errors.Is(err, services.ErrProhibitedContent):
		writeMessage(w, http.StatusBadRequest, "Your message contains inappropriate language.")
	case errors.Is(err, services.ErrInvalidReactionType):
		writeMessage(w, http.StatusBadRequest, "Invalid reaction type")
	case errors.Is(err, services.ErrDuplicateReport):
		writeMessage(w, http.StatusBadRequest, "You already reported this.")
	case errors.Is(err, services.ErrTargetNotFound):
		writeMessage(w, http.StatusNotFound, "Content not found")
	case errors.Is(err, services.ErrNotificationNotFound):
		writeMessage(w, http.StatusNotFound, "Notification not found")
	case errors.Is(err, services.ErrAccountNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrReadOnlyAccount):
		writeMessage(w, http.StatusForbidden, "Your account is in read-only mode.")
	case errors.Is(err, services.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "Admin access required.")
	case errors.Is(err, services.ErrAccountBanned):
		writeMessage(w, http.StatusForbidden, "Your account has been banned.")
	case errors.As(err, &banned):
		writeMessage(w, http.StatusForbidden, fmt.Sprintf("You are temporarily banned until %s", banned.Until.UTC().Format(time.RFC1123)))
	case errors.Is(err, services.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, services.ErrUnauthenticated):
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
	default:
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pathID parses the {id} URL parameter as a positive int64.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// cursorFrom reads lastSeenId and limit from the query string. Bad values are
// treated as absent.
func cursorFrom(r *http.Request) models.Cursor {
	q := r.URL.Query()
	var c models.Cursor
	if v, err := strconv.ParseInt(strings.TrimSpace(q.Get("lastSeenId")), 10, 64); err == nil {
		c.LastSeenID = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(q.Get("limit"))); err == nil {
		c.Limit = v
	}
	return c
}

func postView(p *models.Post) models.FeedItem {
	zero := 0
	return models.FeedItem{
		ID:           p.Ref.ID,
		Kind:         models.KindPost,
		Content:      p.Body,
		MoodTag:      p.MoodTag,
		Mode:         p.Mode,
		CreatedAt:    p.CreatedAt,
		Reactions:    models.ReactionCounts{}.Zeroed(),
		CommentCount: &zero,
	}
}

func commentView(c *models.Comment) models.FeedItem {
	return models.FeedItem{
		ID:        c.Ref.ID,
		Kind:      models.KindComment,
		Content:   c.Body,
		PostID:    c.PostID,
		CreatedAt: c.CreatedAt,
		Reactions: models.ReactionCounts{}.Zeroed(),
	}
}
