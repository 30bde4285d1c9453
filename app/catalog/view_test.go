package catalog

import (
	"testing"

	"github.com/craftform/configurator/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestViewLookups(t *testing.T) {
	categories := []models.Category{
		{ID: "cat-a", Name: "A", Options: []models.Option{
			{
				ID: "opt-a1", CategoryID: "cat-a", Label: "A1", Price: decimal.NewFromInt(1),
				Incompatibilities: []models.Incompatibility{
					{OptionID: "opt-a1", IncompatibleOptionID: "opt-b1", Severity: models.SeverityError},
					{OptionID: "opt-a1", IncompatibleOptionID: "opt-b2", Severity: models.SeverityWarning},
				},
			},
		}},
		{ID: "cat-b", Name: "B", Options: []models.Option{
			{ID: "opt-b1", CategoryID: "cat-b", Label: "B1"},
			{ID: "opt-b2", CategoryID: "cat-b", Label: "B2"},
		}},
	}

	view := New(categories)

	o, ok := view.Option("opt-b1")
	assert.True(t, ok)
	assert.Equal(t, "B1", o.Label)

	_, ok = view.Option("opt-missing")
	assert.False(t, ok)

	catID, ok := view.CategoryOf("opt-a1")
	assert.True(t, ok)
	assert.Equal(t, "cat-a", catID)

	assert.True(t, view.Incompatible("opt-a1", "opt-b1"))
	assert.False(t, view.Incompatible("opt-b1", "opt-a1"), "adjacency is directed as stored")
	assert.False(t, view.Incompatible("opt-a1", "opt-b2"), "warning edges are not in the error set")
	assert.Equal(t, map[string]bool{"opt-b1": true}, view.Conflicts("opt-a1"))
}

func TestSelectableOptionsFiltersInactiveAndOutOfStock(t *testing.T) {
	c := models.Category{ID: "cat-a", Name: "A", Options: []models.Option{
		{ID: "opt-1", CategoryID: "cat-a", Label: "Active", IsActive: true, InStock: true},
		{ID: "opt-2", CategoryID: "cat-a", Label: "Inactive", IsActive: false, InStock: true},
		{ID: "opt-3", CategoryID: "cat-a", Label: "Sold out", IsActive: true, InStock: false},
	}}
	view := New([]models.Category{c})

	selectable := view.SelectableOptions(c)

	assert.Len(t, selectable, 1)
	assert.Equal(t, "opt-1", selectable[0].ID)
}
