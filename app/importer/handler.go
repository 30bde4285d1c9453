package importer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/craftform/configurator/models"
)

type ImportResponse struct {
	Categories               int      `json:"categories"`
	Options                  int      `json:"options"`
	IncompatibilitiesCreated int      `json:"incompatibilities_created"`
	Warnings                 []string `json:"warnings"`
}

type ImportRunner interface {
	Import(merchantID, configuratorID string, payload RawPayload) (*Result, error)
}

type Handler struct {
	svc ImportRunner
}

func NewHandler(svc ImportRunner) *Handler {
	return &Handler{svc: svc}
}

// HandleImport runs a bulk import against one configurator. The merchant
// identity comes from the X-Merchant-ID header set by the auth layer in
// front of this service. Per-row reference problems come back as warnings;
// only ownership failures, empty payloads and storage errors fail the call.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	configuratorID := r.PathValue("id")
	merchantID := r.Header.Get("X-Merchant-ID")
	if merchantID == "" {
		writeError(w, http.StatusUnauthorized, "missing merchant identity")
		return
	}

	var payload RawPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.svc.Import(merchantID, configuratorID, payload)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyImport):
			writeError(w, http.StatusBadRequest, "import payload has no importable items")
		case errors.Is(err, ErrNotOwner):
			writeError(w, http.StatusForbidden, "configurator is not owned by this merchant")
		case errors.Is(err, models.ErrConfiguratorNotFound):
			writeError(w, http.StatusNotFound, "configurator not found")
		default:
			writeError(w, http.StatusInternalServerError, "import failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, ImportResponse{
		Categories:               len(result.Categories),
		Options:                  len(result.Options),
		IncompatibilitiesCreated: result.IncompatibilitiesCreated,
		Warnings:                 result.Warnings,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
