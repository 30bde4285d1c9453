package configurator

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/craftform/configurator/app/catalog"
	"github.com/craftform/configurator/app/resolver"
	"github.com/craftform/configurator/app/session"
	"github.com/craftform/configurator/models"
)

type CategoryView struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Kind             string       `json:"kind"`
	IsPrimary        bool         `json:"is_primary"`
	IsRequired       bool         `json:"is_required"`
	SelectedOptionID string       `json:"selected_option_id"`
	Quantity         int          `json:"quantity"`
	Options          []OptionView `json:"options"`
}

type OptionView struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	SKU       string  `json:"sku,omitempty"`
	Price     float64 `json:"price"`
	IsDefault bool    `json:"is_default"`
	Blocked   bool    `json:"blocked"`
}

type SessionResponse struct {
	SessionID  string         `json:"session_id"`
	Total      float64        `json:"total"`
	Cleared    []string       `json:"cleared_category_ids,omitempty"`
	Categories []CategoryView `json:"categories"`
}

type CatalogProvider interface {
	GetCatalog(configuratorID string) ([]models.Category, error)
}

type Handler struct {
	repo     CatalogProvider
	sessions *session.Store
}

func NewHandler(r CatalogProvider, sessions *session.Store) *Handler {
	return &Handler{
		repo:     r,
		sessions: sessions,
	}
}

// HandleOpenSession loads a catalog snapshot, opens a session over it (the
// auto-selection pass runs as part of Open) and returns the initial state.
func (h *Handler) HandleOpenSession(w http.ResponseWriter, r *http.Request) {
	configuratorID := r.PathValue("id")

	categories, err := h.repo.GetCatalog(configuratorID)
	if err != nil {
		if errors.Is(err, models.ErrConfiguratorNotFound) {
			writeError(w, http.StatusNotFound, "configurator not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}

	s := h.sessions.Open(catalog.New(categories))
	writeJSON(w, http.StatusCreated, h.sessionResponse(s, nil))
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, h.sessionResponse(s, nil))
}

// HandleSelect applies a user option pick. Conflicting picks in other
// categories are cleared, not rejected; the cleared category ids come back
// so the UI can tell the user what got evicted.
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var input struct {
		CategoryID string `json:"category_id"`
		OptionID   string `json:"option_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if input.CategoryID == "" {
		writeError(w, http.StatusBadRequest, "missing category_id")
		return
	}

	cleared, _ := s.Select(input.CategoryID, input.OptionID)
	writeJSON(w, http.StatusOK, h.sessionResponse(s, cleared))
}

func (h *Handler) HandleSetQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var input struct {
		CategoryID string `json:"category_id"`
		Quantity   int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if input.CategoryID == "" {
		writeError(w, http.StatusBadRequest, "missing category_id")
		return
	}

	s.SetQuantity(input.CategoryID, input.Quantity)
	writeJSON(w, http.StatusOK, h.sessionResponse(s, nil))
}

func (h *Handler) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Close(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sessionResponse(s *session.Session, cleared []string) SessionResponse {
	selected, quantities, total := s.Snapshot()

	categories := make([]CategoryView, 0, len(s.View.Categories))
	for _, c := range s.View.Categories {
		selectable := s.View.SelectableOptions(c)
		options := make([]OptionView, len(selectable))
		for i := range selectable {
			o := &selectable[i]
			options[i] = OptionView{
				ID:        o.ID,
				Label:     o.Label,
				SKU:       o.SKU,
				Price:     o.Price.InexactFloat64(),
				IsDefault: o.IsDefault,
				Blocked:   resolver.IsBlocked(o, selected, s.View),
			}
		}
		qty := quantities[c.ID]
		if qty < 1 {
			qty = 1
		}
		categories = append(categories, CategoryView{
			ID:               c.ID,
			Name:             c.Name,
			Kind:             string(c.Kind),
			IsPrimary:        c.IsPrimary,
			IsRequired:       c.IsRequired,
			SelectedOptionID: selected[c.ID],
			Quantity:         qty,
			Options:          options,
		})
	}

	return SessionResponse{
		SessionID:  s.ID,
		Total:      total.InexactFloat64(),
		Cleared:    cleared,
		Categories: categories,
	}
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
