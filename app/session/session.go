// Package session owns the live state of open configuration sessions. Each
// session pins one immutable catalog snapshot and one selection state; the
// core computations stay single-threaded per session, the store only hands
// sessions out.
package session

import (
	"sync"

	"github.com/craftform/configurator/app/catalog"
	"github.com/craftform/configurator/app/pricing"
	"github.com/craftform/configurator/app/selection"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Session struct {
	ID   string
	View *catalog.View

	mu    sync.Mutex
	state *selection.State
}

// Select applies a user pick and returns the cleared category ids plus the
// recomputed total.
func (s *Session) Select(categoryID, optionID string) ([]string, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cleared := selection.SelectOption(s.View, s.state, categoryID, optionID)
	return cleared, pricing.Total(s.View, s.state.Selected, s.state.Quantities)
}

// SetQuantity updates a category quantity and returns the recomputed total.
func (s *Session) SetQuantity(categoryID string, qty int) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	selection.SetQuantity(s.state, categoryID, qty)
	return pricing.Total(s.View, s.state.Selected, s.state.Quantities)
}

// Snapshot returns copies of the current selection and quantities plus the
// total, safe for the caller to read without holding the session.
func (s *Session) Snapshot() (map[string]string, map[string]int, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	selected := make(map[string]string, len(s.state.Selected))
	for k, v := range s.state.Selected {
		selected[k] = v
	}
	quantities := make(map[string]int, len(s.state.Quantities))
	for k, v := range s.state.Quantities {
		quantities[k] = v
	}
	return selected, quantities, pricing.Total(s.View, s.state.Selected, s.state.Quantities)
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Open creates a session over a catalog snapshot and runs the auto-selection
// pass for primary/required categories immediately.
func (st *Store) Open(view *catalog.View) *Session {
	s := &Session{
		ID:    uuid.New().String(),
		View:  view,
		state: selection.NewState(),
	}
	selection.AutoSelect(view, s.state)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *Store) Close(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
