package handlers

import (
	"github.com/AnshRaj112/safespace-backend/internal/services"
)

// Handler serves the HTTP API on top of the moderation services.
type Handler struct {
	Accounts      *services.AccountService
	Posts         *services.PostService
	Comments      *services.CommentService
	Reactions     *services.ReactionLedger
	Reports       *services.ReportLedger
	Feed          *services.FeedAssembler
	Notifications *services.NotificationService
	Admin         *services.AdminService
	Hub           *services.NotificationHub
}
