package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/ghosthunt/internal/model"
	"github.com/dukerupert/ghosthunt/internal/redeem"
	"github.com/dukerupert/ghosthunt/internal/store"
)

type CodeHandler struct {
	engine   *redeem.Engine
	sessions *store.SessionStore
	logger   *slog.Logger
}

func NewCodeHandler(engine *redeem.Engine, sessions *store.SessionStore, logger *slog.Logger) *CodeHandler {
	return &CodeHandler{engine: engine, sessions: sessions, logger: logger}
}

// Check submits a code for the logged-in student. Every rule rejection is a
// 200 with success=false; only store failures surface as 5xx.
func (h *CodeHandler) Check(w http.ResponseWriter, r *http.Request) {
	sess, err := currentSession(r, h.sessions)
	if err != nil {
		h.logger.Error("session lookup", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	var req model.CheckCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.CheckCodeResponse{Message: "invalid request body"})
		return
	}

	result, err := h.engine.Submit(sess, strings.TrimSpace(req.Code))
	if err != nil {
		h.logger.Error("submit code", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	if !result.Accepted {
		writeJSON(w, http.StatusOK, model.CheckCodeResponse{Message: result.Reason.Message()})
		return
	}

	writeJSON(w, http.StatusOK, model.CheckCodeResponse{Success: true, Page: result.Page})
}
