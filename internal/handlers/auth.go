package handlers

import (
	"net/http"

	"github.com/AnshRaj112/safespace-backend/internal/middleware"
)

// AdminSigninRequest represents the request to sign in as admin
type AdminSigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// EnterAnonymously creates a fresh anonymous account and returns its token.
func (h *Handler) EnterAnonymously(w http.ResponseWriter, r *http.Request) {
	session, err := h.Accounts.EnterAnonymously(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{
		"success":    true,
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"username":   session.Account.Username,
		"user":       session.Account,
	})
}

// Me returns the caller's account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	writeOK(w, envelope{"user": middleware.AccountFrom(r.Context())})
}

// AdminSignin checks an admin credential and returns a token.
func (h *Handler) AdminSignin(w http.ResponseWriter, r *http.Request) {
	var req AdminSigninRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.Accounts.AdminSignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{
		"message":    "Signed in successfully",
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"user":       session.Account,
	})
}
