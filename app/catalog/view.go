package catalog

import (
	"github.com/craftform/configurator/models"
)

// View is the per-session read model of one configurator's catalog.
// Incompatibility edges are held as adjacency sets keyed by option id
// instead of live back-references between option objects, so the snapshot
// stays a plain acyclic value.
type View struct {
	Categories []models.Category

	options        map[string]*models.Option
	optionCategory map[string]string
	errorEdges     map[string]map[string]bool
}

// New builds a view from a loaded catalog snapshot. The snapshot is not
// copied; callers must treat it as immutable for the session's lifetime.
func New(categories []models.Category) *View {
	v := &View{
		Categories:     categories,
		options:        make(map[string]*models.Option),
		optionCategory: make(map[string]string),
		errorEdges:     make(map[string]map[string]bool),
	}
	for ci := range categories {
		c := &categories[ci]
		for oi := range c.Options {
			o := &c.Options[oi]
			v.options[o.ID] = o
			v.optionCategory[o.ID] = c.ID
			for _, edge := range o.Incompatibilities {
				if !edge.IsError() {
					continue
				}
				set := v.errorEdges[o.ID]
				if set == nil {
					set = make(map[string]bool)
					v.errorEdges[o.ID] = set
				}
				set[edge.IncompatibleOptionID] = true
			}
		}
	}
	return v
}

// Option returns the option with the given id, if present.
func (v *View) Option(id string) (*models.Option, bool) {
	o, ok := v.options[id]
	return o, ok
}

// CategoryOf returns the owning category id of an option.
func (v *View) CategoryOf(optionID string) (string, bool) {
	id, ok := v.optionCategory[optionID]
	return id, ok
}

// Incompatible reports whether option a records an error-severity edge
// against option b. Directed: callers that need the symmetric answer must
// check both orders.
func (v *View) Incompatible(a, b string) bool {
	return v.errorEdges[a][b]
}

// Conflicts returns the set of option ids option id records error-severity
// edges against. The returned map must not be mutated.
func (v *View) Conflicts(optionID string) map[string]bool {
	return v.errorEdges[optionID]
}

// SelectableOptions filters a category's options down to the ones the UI
// may offer: active and in stock. This is a display filter only; existing
// selections of options that later fail the filter are kept as-is.
func (v *View) SelectableOptions(c models.Category) []models.Option {
	selectable := make([]models.Option, 0, len(c.Options))
	for _, o := range c.Options {
		if o.IsActive && o.InStock {
			selectable = append(selectable, o)
		}
	}
	return selectable
}
