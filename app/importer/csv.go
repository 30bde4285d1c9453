package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseCSV reads a flat CSV export into the raw import payload. Expected
// header columns: category, label, description, sku, price, is_default,
// incompatible_with (extra columns are ignored, missing ones default to
// empty). Rows are grouped by category in first-appearance order; the loose
// per-field rules of Normalize apply afterwards.
func ParseCSV(r io.Reader) (RawPayload, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return RawPayload{}, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["category"]; !ok {
		return RawPayload{}, fmt.Errorf("csv is missing the category column")
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	groupIndex := make(map[string]int)
	var payload RawPayload
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RawPayload{}, fmt.Errorf("read csv row: %w", err)
		}

		categoryName := strings.TrimSpace(field(record, "category"))
		option := RawOption{
			TempID:      field(record, "temp_id"),
			Label:       field(record, "label"),
			Description: field(record, "description"),
			SKU:         field(record, "sku"),
			IsDefault:   strings.EqualFold(strings.TrimSpace(field(record, "is_default")), "true"),
		}
		option.Price.Decimal = parsePrice(field(record, "price"))
		option.IncompatibleWith = StringList(trimNonEmpty(strings.Split(field(record, "incompatible_with"), ",")))

		idx, ok := groupIndex[categoryName]
		if !ok {
			payload.Items = append(payload.Items, RawGroup{
				Category: RawCategory{Name: categoryName},
			})
			idx = len(payload.Items) - 1
			groupIndex[categoryName] = idx
		}
		payload.Items[idx].Options = append(payload.Items[idx].Options, option)
	}
	return payload, nil
}
