package importer

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/craftform/configurator/models"
	"github.com/shopspring/decimal"
)

// ErrEmptyImport is returned when nothing in the payload survives
// normalization.
var ErrEmptyImport = errors.New("import payload has no importable items")

// RawPayload is the wire shape of a bulk import. Field types are
// deliberately loose (string-or-number prices, string-or-array
// incompatibility lists, legacy id aliases); normalization turns them into
// one canonical shape and everything past this boundary is strictly typed.
type RawPayload struct {
	Items []RawGroup `json:"items"`
}

type RawGroup struct {
	Category RawCategory `json:"category"`
	Options  []RawOption `json:"options"`
}

type RawCategory struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	IsPrimary  bool   `json:"isPrimary"`
	IsRequired bool   `json:"isRequired"`
}

type RawOption struct {
	TempID           string     `json:"tempId"`
	LegacyID         string     `json:"id"`
	Label            string     `json:"label"`
	Description      string     `json:"description"`
	SKU              string     `json:"sku"`
	Price            FlexPrice  `json:"price"`
	IsDefault        bool       `json:"isDefault"`
	IncompatibleWith StringList `json:"incompatibleWith"`
}

// FlexPrice accepts a JSON number or a numeric string. Empty strings, nulls
// and unparseable values mean "no price set" and decode to zero rather than
// erroring; negative values are clamped to zero since option prices are
// non-negative by invariant.
type FlexPrice struct {
	decimal.Decimal
}

func (p *FlexPrice) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		p.Decimal = decimal.Zero
		return nil
	}
	if s[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			p.Decimal = decimal.Zero
			return nil
		}
		s = strings.TrimSpace(raw)
		if s == "" {
			p.Decimal = decimal.Zero
			return nil
		}
	}
	p.Decimal = parsePrice(s)
	return nil
}

// parsePrice is the permissive price rule shared by JSON and CSV inputs:
// unparseable, empty or negative values mean "no price set", which is zero.
func parsePrice(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// StringList accepts a JSON array of strings or a single comma-separated
// string and normalizes to trimmed, non-empty entries.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*l = nil
		return nil
	}
	if s[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = trimNonEmpty(items)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = trimNonEmpty(strings.Split(raw, ","))
	return nil
}

func trimNonEmpty(items []string) []string {
	var out []string
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Group is the canonical form of one imported category with its options.
type Group struct {
	Category models.Category
	Options  []OptionInput
}

// OptionInput is the canonical form of one imported option.
type OptionInput struct {
	TempID           string
	Label            string
	Description      string
	SKU              string
	Price            decimal.Decimal
	IsDefault        bool
	IncompatibleWith []string
}

// Normalize coerces the raw payload into canonical groups. Options with an
// empty label are dropped silently, as are groups with an empty category
// name or no surviving options. A payload with zero surviving groups is the
// one normalization outcome treated as a rejected operation.
func Normalize(payload RawPayload) ([]Group, error) {
	var groups []Group
	for _, item := range payload.Items {
		name := strings.TrimSpace(item.Category.Name)
		if name == "" {
			continue
		}

		var options []OptionInput
		for _, raw := range item.Options {
			label := strings.TrimSpace(raw.Label)
			if label == "" {
				continue
			}
			tempID := strings.TrimSpace(raw.TempID)
			if tempID == "" {
				tempID = strings.TrimSpace(raw.LegacyID)
			}
			options = append(options, OptionInput{
				TempID:           tempID,
				Label:            label,
				Description:      strings.TrimSpace(raw.Description),
				SKU:              strings.TrimSpace(raw.SKU),
				Price:            raw.Price.Decimal,
				IsDefault:        raw.IsDefault,
				IncompatibleWith: raw.IncompatibleWith,
			})
		}
		if len(options) == 0 {
			continue
		}

		groups = append(groups, Group{
			Category: models.Category{
				Name:       name,
				Kind:       normalizeKind(item.Category.Kind),
				IsPrimary:  item.Category.IsPrimary,
				IsRequired: item.Category.IsRequired,
			},
			Options: options,
		})
	}

	if len(groups) == 0 {
		return nil, ErrEmptyImport
	}
	return groups, nil
}

func normalizeKind(kind string) models.CategoryKind {
	switch k := models.CategoryKind(strings.ToLower(strings.TrimSpace(kind))); k {
	case models.KindColor, models.KindDimension, models.KindMaterial, models.KindFeature,
		models.KindAccessory, models.KindPower, models.KindText, models.KindFinish, models.KindCustom:
		return k
	default:
		return models.KindGeneric
	}
}
