// Package resolver decides whether a candidate option may be combined with
// the current selection. It is a pure predicate over the catalog view and
// never mutates state.
package resolver

import (
	"github.com/craftform/configurator/app/catalog"
	"github.com/craftform/configurator/models"
)

// IsBlocked reports whether candidate conflicts with any option currently
// selected in another category. Both edge directions are checked: the data
// layer guarantees symmetric rows, but a one-directional edge is a data bug
// the resolver should not silently trust, so the reverse direction is
// checked as well. Only error-severity edges block; warnings never do.
func IsBlocked(candidate *models.Option, selected map[string]string, view *catalog.View) bool {
	if candidate == nil {
		return false
	}
	for _, c := range view.Categories {
		if c.ID == candidate.CategoryID {
			continue
		}
		selectedID := selected[c.ID]
		if selectedID == "" {
			continue
		}
		if view.Incompatible(selectedID, candidate.ID) || view.Incompatible(candidate.ID, selectedID) {
			return true
		}
	}
	return false
}
