package session

import (
	"testing"

	"github.com/craftform/configurator/app/catalog"
	"github.com/craftform/configurator/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testView() *catalog.View {
	frame := models.Category{
		ID: "cat-frame", Name: "Frame", IsRequired: true,
		Options: []models.Option{
			{ID: "opt-steel", CategoryID: "cat-frame", Label: "Steel", Price: decimal.NewFromInt(10), IsActive: true, InStock: true},
		},
	}
	return catalog.New([]models.Category{frame})
}

func TestStoreLifecycle(t *testing.T) {
	store := NewStore()

	s := store.Open(testView())
	require.NotEmpty(t, s.ID)

	selected, _, total := s.Snapshot()
	assert.Equal(t, "opt-steel", selected["cat-frame"], "auto-selection runs on open")
	assert.True(t, total.Equal(decimal.NewFromInt(10)))

	got, ok := store.Get(s.ID)
	assert.True(t, ok)
	assert.Same(t, s, got)

	store.Close(s.ID)
	_, ok = store.Get(s.ID)
	assert.False(t, ok)
}

func TestSessionMutations(t *testing.T) {
	store := NewStore()
	s := store.Open(testView())

	total := s.SetQuantity("cat-frame", 4)
	assert.True(t, total.Equal(decimal.NewFromInt(40)))

	cleared, total := s.Select("cat-frame", "opt-steel")
	assert.Nil(t, cleared)
	assert.True(t, total.Equal(decimal.NewFromInt(40)))
}

func TestSnapshotReturnsCopies(t *testing.T) {
	store := NewStore()
	s := store.Open(testView())

	selected, quantities, _ := s.Snapshot()
	selected["cat-frame"] = "tampered"
	quantities["cat-frame"] = 99

	fresh, freshQty, _ := s.Snapshot()
	assert.Equal(t, "opt-steel", fresh["cat-frame"])
	_, exists := freshQty["cat-frame"]
	assert.False(t, exists)
}
