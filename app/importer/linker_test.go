package importer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/craftform/configurator/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- Fake store ---

// fakeStore keeps the catalog in memory and simulates the unique index on
// the incompatibility pair.
type fakeStore struct {
	configurators map[string]*models.Configurator
	categories    []models.Category
	options       []models.Option
	edges         []models.Incompatibility
	edgeKeys      map[[2]string]bool
	nextID        int

	optionErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		configurators: map[string]*models.Configurator{
			"cfg-1": {ID: "cfg-1", MerchantID: "merchant-1", Name: "Bikes"},
		},
		edgeKeys: make(map[[2]string]bool),
	}
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) GetConfigurator(id string) (*models.Configurator, error) {
	cfg, ok := f.configurators[id]
	if !ok {
		return nil, models.ErrConfiguratorNotFound
	}
	return cfg, nil
}

func (f *fakeStore) ImportTx(fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (f *fakeStore) FindOrCreateCategory(tx *gorm.DB, configuratorID string, category models.Category) (*models.Category, error) {
	for i := range f.categories {
		if f.categories[i].ConfiguratorID == configuratorID && f.categories[i].Name == category.Name {
			return &f.categories[i], nil
		}
	}
	category.ID = f.id("cat")
	category.ConfiguratorID = configuratorID
	f.categories = append(f.categories, category)
	return &f.categories[len(f.categories)-1], nil
}

func (f *fakeStore) CreateOption(tx *gorm.DB, option *models.Option) error {
	if f.optionErr != nil {
		return f.optionErr
	}
	option.ID = f.id("opt")
	f.options = append(f.options, *option)
	return nil
}

func (f *fakeStore) CreateIncompatibilities(tx *gorm.DB, rows []models.Incompatibility) (int, error) {
	created := 0
	for _, row := range rows {
		key := [2]string{row.OptionID, row.IncompatibleOptionID}
		if f.edgeKeys[key] {
			continue
		}
		f.edgeKeys[key] = true
		f.edges = append(f.edges, row)
		created++
	}
	return created, nil
}

// --- Tests ---

func bikePayload() RawPayload {
	return RawPayload{Items: []RawGroup{
		{
			Category: RawCategory{Name: "Frame"},
			Options: []RawOption{
				{TempID: "tmp-steel", Label: "Steel frame", SKU: "FR-ST", IncompatibleWith: StringList{"red paint"}},
				{Label: "Alu frame", SKU: "FR-AL"},
			},
		},
		{
			Category: RawCategory{Name: "Paint"},
			Options: []RawOption{
				{Label: "Red paint", IncompatibleWith: StringList{"FR-ST"}},
			},
		},
	}}
}

func TestImportCreatesBidirectionalDedupedEdges(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	result, err := svc.Import("merchant-1", "cfg-1", bikePayload())
	require.NoError(t, err)

	// Steel references Red by lowercase label, Red references Steel by sku:
	// both resolve to the same pair and the mirrored rows dedupe to two.
	assert.Equal(t, 2, result.IncompatibilitiesCreated)
	assert.Empty(t, result.Warnings)
	require.Len(t, store.edges, 2)

	steel := store.options[0]
	red := store.options[2]
	assert.True(t, store.edgeKeys[[2]string{steel.ID, red.ID}])
	assert.True(t, store.edgeKeys[[2]string{red.ID, steel.ID}])
	for _, edge := range store.edges {
		assert.Equal(t, models.SeverityError, edge.Severity)
	}
}

func TestImportFindOrCreateCategoriesIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	payload := RawPayload{Items: []RawGroup{{
		Category: RawCategory{Name: "Frame"},
		Options:  []RawOption{{Label: "Steel frame"}},
	}}}

	_, err := svc.Import("merchant-1", "cfg-1", payload)
	require.NoError(t, err)
	_, err = svc.Import("merchant-1", "cfg-1", payload)
	require.NoError(t, err)

	assert.Len(t, store.categories, 1, "same category name is reused")
	assert.Len(t, store.options, 2, "options are not deduplicated by label")
	assert.Equal(t, store.options[0].CategoryID, store.options[1].CategoryID)
}

func TestImportExactKeysTakePrecedenceOverLabels(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	// The second option's lowercase label collides with the first option's
	// temp id. The exact key registered first must win the lookup.
	payload := RawPayload{Items: []RawGroup{{
		Category: RawCategory{Name: "Frame"},
		Options: []RawOption{
			{TempID: "carbon", Label: "Carbon frame"},
			{Label: "Carbon"},
			{Label: "Seat clamp", IncompatibleWith: StringList{"carbon"}},
		},
	}}}

	result, err := svc.Import("merchant-1", "cfg-1", payload)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	carbonFrame := store.options[0]
	clamp := store.options[2]
	assert.True(t, store.edgeKeys[[2]string{clamp.ID, carbonFrame.ID}],
		"reference resolves to the temp-id registration, not the later label")
}

func TestImportLabelKeyIsLastWriteWins(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	payload := RawPayload{Items: []RawGroup{{
		Category: RawCategory{Name: "Paint"},
		Options: []RawOption{
			{Label: "Red"},
			{Label: "red"},
			{Label: "Primer", IncompatibleWith: StringList{"RED"}},
		},
	}}}

	result, err := svc.Import("merchant-1", "cfg-1", payload)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	second := store.options[1]
	primer := store.options[2]
	assert.True(t, store.edgeKeys[[2]string{primer.ID, second.ID}],
		"later option wins a label collision")
}

func TestImportUnresolvableReferenceWarnsAndProceeds(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	payload := RawPayload{Items: []RawGroup{{
		Category: RawCategory{Name: "Frame"},
		Options: []RawOption{
			{Label: "Steel frame", IncompatibleWith: StringList{"ghost-ref"}},
		},
	}}}

	result, err := svc.Import("merchant-1", "cfg-1", payload)
	require.NoError(t, err)

	assert.Len(t, store.options, 1, "import proceeds despite the gap")
	assert.Equal(t, 0, result.IncompatibilitiesCreated)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "ghost-ref")
}

func TestImportSelfReferenceWarnsAndSkips(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	payload := RawPayload{Items: []RawGroup{{
		Category: RawCategory{Name: "Frame"},
		Options: []RawOption{
			{TempID: "tmp-1", Label: "Steel frame", IncompatibleWith: StringList{"tmp-1"}},
		},
	}}}

	result, err := svc.Import("merchant-1", "cfg-1", payload)
	require.NoError(t, err)

	assert.Equal(t, 0, result.IncompatibilitiesCreated)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "itself")
}

func TestImportFailures(t *testing.T) {
	testCases := []struct {
		name           string
		merchantID     string
		configuratorID string
		payload        RawPayload
		storeSetup     func(*fakeStore)
		expectedErr    error
	}{
		{
			name:           "empty payload is rejected before any store call",
			merchantID:     "merchant-1",
			configuratorID: "cfg-1",
			payload:        RawPayload{},
			expectedErr:    ErrEmptyImport,
		},
		{
			name:           "foreign configurator",
			merchantID:     "merchant-2",
			configuratorID: "cfg-1",
			payload:        bikePayload(),
			expectedErr:    ErrNotOwner,
		},
		{
			name:           "unknown configurator",
			merchantID:     "merchant-1",
			configuratorID: "cfg-missing",
			payload:        bikePayload(),
			expectedErr:    models.ErrConfiguratorNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			if tc.storeSetup != nil {
				tc.storeSetup(store)
			}
			svc := NewService(store)

			_, err := svc.Import(tc.merchantID, tc.configuratorID, tc.payload)

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestImportStorageFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.optionErr = errors.New("insert failed")
	svc := NewService(store)

	_, err := svc.Import("merchant-1", "cfg-1", bikePayload())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert failed")
}
