package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/craftform/configurator/models"
	"gorm.io/gorm"
)

// ErrNotOwner is returned when the requesting merchant does not own the
// target configurator. Ownership failures abort the whole import.
var ErrNotOwner = errors.New("configurator is not owned by this merchant")

// CatalogStore is the persistence surface the importer needs. The three
// write phases run inside a single ImportTx.
type CatalogStore interface {
	GetConfigurator(id string) (*models.Configurator, error)
	ImportTx(fn func(tx *gorm.DB) error) error
	FindOrCreateCategory(tx *gorm.DB, configuratorID string, category models.Category) (*models.Category, error)
	CreateOption(tx *gorm.DB, option *models.Option) error
	CreateIncompatibilities(tx *gorm.DB, rows []models.Incompatibility) (int, error)
}

// Result reports what an import produced. Warnings carry per-row issues
// (unresolvable incompatibility references) that did not abort the import.
type Result struct {
	Categories               []models.Category
	Options                  []models.Option
	IncompatibilitiesCreated int
	Warnings                 []string
}

type Service struct {
	store CatalogStore
}

func NewService(store CatalogStore) *Service {
	return &Service{store: store}
}

// lookupEntry records what kind of key an option id was registered under.
// Exact keys (temp id, sku) are first-write-wins; the lowercase-label key is
// last-write-wins but never displaces an exact key.
type lookupEntry struct {
	optionID string
	isLabel  bool
}

type pendingEdges struct {
	optionID string
	label    string
	refs     []string
}

// Import runs the full normalize-and-link pipeline for one configurator.
// Categories are found-or-created by exact name; options are always created
// (no dedup by label); incompatibility references are resolved against temp
// id, sku, or case-insensitive label and produce both directed edge rows,
// deduplicated by the (option, incompatible option) pair before insert.
func (s *Service) Import(merchantID, configuratorID string, payload RawPayload) (*Result, error) {
	groups, err := Normalize(payload)
	if err != nil {
		return nil, err
	}

	cfg, err := s.store.GetConfigurator(configuratorID)
	if err != nil {
		return nil, err
	}
	if cfg.MerchantID != merchantID {
		return nil, ErrNotOwner
	}

	result := &Result{Warnings: []string{}}

	err = s.store.ImportTx(func(tx *gorm.DB) error {
		lookup := make(map[string]lookupEntry)
		var pending []pendingEdges

		for _, group := range groups {
			category, err := s.store.FindOrCreateCategory(tx, configuratorID, group.Category)
			if err != nil {
				return fmt.Errorf("ensure category %q: %w", group.Category.Name, err)
			}
			result.Categories = append(result.Categories, *category)

			for pos, input := range group.Options {
				option := models.Option{
					CategoryID:  category.ID,
					Label:       input.Label,
					Description: input.Description,
					SKU:         input.SKU,
					Price:       input.Price,
					Position:    pos,
					IsDefault:   input.IsDefault,
					InStock:     true,
					IsActive:    true,
				}
				if err := s.store.CreateOption(tx, &option); err != nil {
					return fmt.Errorf("create option %q: %w", input.Label, err)
				}
				result.Options = append(result.Options, option)

				registerExact(lookup, input.TempID, option.ID)
				registerExact(lookup, input.SKU, option.ID)
				registerLabel(lookup, strings.ToLower(input.Label), option.ID)

				if len(input.IncompatibleWith) > 0 {
					pending = append(pending, pendingEdges{
						optionID: option.ID,
						label:    input.Label,
						refs:     input.IncompatibleWith,
					})
				}
			}
		}

		rows := s.resolveEdges(lookup, pending, result)
		if len(rows) == 0 {
			return nil
		}
		created, err := s.store.CreateIncompatibilities(tx, rows)
		if err != nil {
			return fmt.Errorf("create incompatibilities: %w", err)
		}
		result.IncompatibilitiesCreated = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveEdges turns symbolic incompatibility references into concrete,
// deduplicated, bidirectional edge rows. Unresolvable references become
// warnings and are skipped.
func (s *Service) resolveEdges(lookup map[string]lookupEntry, pending []pendingEdges, result *Result) []models.Incompatibility {
	seen := make(map[[2]string]bool)
	var rows []models.Incompatibility

	addRow := func(a, b string) {
		key := [2]string{a, b}
		if seen[key] {
			return
		}
		seen[key] = true
		rows = append(rows, models.Incompatibility{
			OptionID:             a,
			IncompatibleOptionID: b,
			Severity:             models.SeverityError,
		})
	}

	for _, p := range pending {
		for _, ref := range p.refs {
			entry, ok := lookup[ref]
			if !ok {
				entry, ok = lookup[strings.ToLower(ref)]
			}
			if !ok {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("option %q: incompatibility reference %q could not be resolved", p.label, ref))
				continue
			}
			if entry.optionID == p.optionID {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("option %q: incompatibility reference %q resolves to itself", p.label, ref))
				continue
			}
			addRow(p.optionID, entry.optionID)
			addRow(entry.optionID, p.optionID)
		}
	}
	return rows
}

func registerExact(lookup map[string]lookupEntry, key, optionID string) {
	if key == "" {
		return
	}
	if _, exists := lookup[key]; exists {
		return
	}
	lookup[key] = lookupEntry{optionID: optionID}
}

func registerLabel(lookup map[string]lookupEntry, key, optionID string) {
	if key == "" {
		return
	}
	if existing, exists := lookup[key]; exists && !existing.isLabel {
		return
	}
	lookup[key] = lookupEntry{optionID: optionID, isLabel: true}
}
