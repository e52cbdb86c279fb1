package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/ghosthunt/internal/model"
	"github.com/dukerupert/ghosthunt/internal/store"
)

const sessionCookieName = "ghosthunt_session"

type AuthHandler struct {
	members  *store.MemberStore
	sessions *store.SessionStore
	logger   *slog.Logger
}

func NewAuthHandler(members *store.MemberStore, sessions *store.SessionStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{members: members, sessions: sessions, logger: logger}
}

// Login checks the submitted name and student ID against the roster and
// establishes a session on an exact match. No password is involved; roster
// membership is the whole identity check.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.StatusResponse{Message: "invalid request body"})
		return
	}

	name := strings.TrimSpace(req.Name)
	sid := strings.TrimSpace(req.StudentID)

	member, err := h.members.FindByNameAndID(name, sid)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if member == nil {
		h.logger.Info("login rejected", "name", name, "student_id", sid)
		writeJSON(w, http.StatusOK, model.StatusResponse{
			Message: "This student is not registered.",
		})
		return
	}

	sess, err := h.sessions.Create(member.Name, member.StudentID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   12 * 60 * 60, // matches the session TTL
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	h.logger.Info("login accepted", "name", member.Name, "student_id", member.StudentID)
	writeJSON(w, http.StatusOK, model.StatusResponse{Success: true})
}

// Logout deletes the server-side session and clears the cookie. Safe to call
// without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(cookie.Value); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	writeJSON(w, http.StatusOK, model.StatusResponse{Success: true})
}

// currentSession resolves the session cookie to a live session, or nil for
// missing, unknown, and expired tokens alike.
func currentSession(r *http.Request, sessions *store.SessionStore) (*model.Session, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	return sessions.GetByToken(cookie.Value)
}
