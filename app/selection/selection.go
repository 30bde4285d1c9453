// Package selection holds the mutable state of one configuration session
// and the two entry points that may change it: the auto-selection pass and
// user option picks. Invalid category or option ids are no-ops throughout;
// the calling layer is expected to only present valid ids, and absence is a
// normal value here, never an error.
package selection

import (
	"github.com/craftform/configurator/app/catalog"
	"github.com/craftform/configurator/models"
)

// State is the selection tuple of one session: the chosen option per
// category and the per-category quantities. A missing quantity means 1.
type State struct {
	Selected   map[string]string
	Quantities map[string]int
}

func NewState() *State {
	return &State{
		Selected:   make(map[string]string),
		Quantities: make(map[string]int),
	}
}

// AutoSelect fills in a selection for every primary or required category
// that has options and no current pick. Existing picks are never overridden,
// which makes the pass idempotent: a second run over unchanged state is a
// no-op. Pick priority: the default-flagged option, else the strictly
// cheapest (first in option order on a tie), else the first option.
func AutoSelect(view *catalog.View, st *State) {
	for _, c := range view.Categories {
		if !c.IsPrimary && !c.IsRequired {
			continue
		}
		if len(c.Options) == 0 {
			continue
		}
		if st.Selected[c.ID] != "" {
			continue
		}
		st.Selected[c.ID] = pickOption(c.Options).ID
	}
}

func pickOption(options []models.Option) *models.Option {
	for i := range options {
		if options[i].IsDefault {
			return &options[i]
		}
	}
	cheapest := &options[0]
	for i := 1; i < len(options); i++ {
		if options[i].Price.LessThan(cheapest.Price) {
			cheapest = &options[i]
		}
	}
	return cheapest
}

// SelectOption applies a user pick and returns the ids of categories whose
// selections were cleared because they conflicted with the new option.
//
// An empty optionID clears the category's selection, except on a primary
// category with an existing pick, where clearing is a no-op (primary picks
// can only be replaced). A non-empty pick always wins: any other category
// whose current selection appears in the new option's error-severity edge
// set is evicted. The cascade is one hop only; cleared slots are not
// re-scanned for further conflicts.
func SelectOption(view *catalog.View, st *State, categoryID, optionID string) []string {
	var target *models.Category
	for i := range view.Categories {
		if view.Categories[i].ID == categoryID {
			target = &view.Categories[i]
			break
		}
	}
	if target == nil {
		return nil
	}

	if optionID == "" {
		if target.IsPrimary && st.Selected[categoryID] != "" {
			return nil
		}
		delete(st.Selected, categoryID)
		return nil
	}

	option, ok := view.Option(optionID)
	if !ok || option.CategoryID != categoryID {
		return nil
	}

	st.Selected[categoryID] = optionID

	conflicts := view.Conflicts(optionID)
	if len(conflicts) == 0 {
		return nil
	}

	var cleared []string
	for _, c := range view.Categories {
		if c.ID == categoryID {
			continue
		}
		selectedID := st.Selected[c.ID]
		if selectedID != "" && conflicts[selectedID] {
			delete(st.Selected, c.ID)
			cleared = append(cleared, c.ID)
		}
	}
	return cleared
}

// SetQuantity records the quantity for a category. Values below 1 reset the
// entry; pricing treats a missing quantity as 1.
func SetQuantity(st *State, categoryID string, qty int) {
	if qty < 1 {
		delete(st.Quantities, categoryID)
		return
	}
	st.Quantities[categoryID] = qty
}
