package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/ghosthunt/internal/catalog"
	"github.com/dukerupert/ghosthunt/internal/model"
	"github.com/dukerupert/ghosthunt/internal/roster"
	"github.com/dukerupert/ghosthunt/internal/store"
)

type AdminHandler struct {
	ledger  *store.LedgerStore
	catalog *catalog.Source
	syncer  *roster.Syncer
	logger  *slog.Logger
}

func NewAdminHandler(ledger *store.LedgerStore, cat *catalog.Source, syncer *roster.Syncer, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{ledger: ledger, catalog: cat, syncer: syncer, logger: logger}
}

// Data returns every attempt and claim record, newest first, with each claim
// labeled by the prize its destination page maps to.
func (h *AdminHandler) Data(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.ledger.ListAttempts()
	if err != nil {
		h.logger.Error("list attempts", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	used, err := h.ledger.ListUsedCodes()
	if err != nil {
		h.logger.Error("list used codes", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	// Catalog unreadable just means no product labels; the report itself
	// still renders.
	if pages, err := h.catalog.Pages(); err == nil {
		for i := range used {
			used[i].Product = catalog.ProductName(pages[used[i].Code])
		}
	} else {
		h.logger.Warn("catalog unavailable for report", "error", err)
	}

	if attempts == nil {
		attempts = []model.Attempt{}
	}
	if used == nil {
		used = []model.UsedCode{}
	}
	writeJSON(w, http.StatusOK, model.AdminReport{Attempts: attempts, UsedCodes: used})
}

// ResetAttempts deletes every attempt row, leaving claims untouched.
func (h *AdminHandler) ResetAttempts(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.ResetAttempts(); err != nil {
		h.logger.Error("reset attempts", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	h.logger.Info("attempt log cleared")
	writeJSON(w, http.StatusOK, model.StatusResponse{Success: true})
}

// ResetUsedCodes deletes every claim record, leaving attempts untouched.
func (h *AdminHandler) ResetUsedCodes(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.ResetUsedCodes(); err != nil {
		h.logger.Error("reset used codes", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	h.logger.Info("claim records cleared")
	writeJSON(w, http.StatusOK, model.StatusResponse{Success: true})
}

// DeleteCode removes a single claim record by code.
func (h *AdminHandler) DeleteCode(w http.ResponseWriter, r *http.Request) {
	var req model.DeleteCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.StatusResponse{Message: "invalid request body"})
		return
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		writeJSON(w, http.StatusOK, model.StatusResponse{Message: "No code specified."})
		return
	}

	deleted, err := h.ledger.DeleteUsedCode(code)
	if err != nil {
		h.logger.Error("delete used code", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusOK, model.StatusResponse{Message: "This code does not exist."})
		return
	}

	h.logger.Info("claim record deleted", "code", code)
	writeJSON(w, http.StatusOK, model.StatusResponse{Success: true})
}

// ReloadRoster triggers the same roster sync the file watcher runs.
func (h *AdminHandler) ReloadRoster(w http.ResponseWriter, r *http.Request) {
	count, err := h.syncer.Reload()
	if err != nil {
		h.logger.Warn("manual roster reload failed", "error", err)
		writeJSON(w, http.StatusOK, model.ReloadResponse{Message: "Roster file could not be read."})
		return
	}
	writeJSON(w, http.StatusOK, model.ReloadResponse{Success: true, Count: count})
}
