package normalize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"SentimentExporter/internal/domain"
)

// Mapping declares which source field feeds each canonical field.
// Keys are source field names, values are domain.Field* names.
type Mapping map[string]string

// Normalizer converts raw rows of one source into canonical records.
type Normalizer struct {
	dateField   string
	valueField  string
	ratingField string
	codec       DateCodec
}

// New validates the mapping and binds it to the source's date codec.
func New(mapping Mapping, codec DateCodec) (*Normalizer, error) {
	if codec == nil {
		return nil, fmt.Errorf("date codec is required")
	}

	n := &Normalizer{codec: codec}
	for src, dst := range mapping {
		var slot *string
		switch dst {
		case domain.FieldDate:
			slot = &n.dateField
		case domain.FieldValue:
			slot = &n.valueField
		case domain.FieldRating:
			slot = &n.ratingField
		default:
			return nil, fmt.Errorf("column %q maps to unknown field %q", src, dst)
		}
		if *slot != "" {
			return nil, fmt.Errorf("field %q mapped twice (%q and %q)", dst, *slot, src)
		}
		*slot = src
	}

	for _, field := range domain.CanonicalFields {
		if !n.maps(field) {
			return nil, fmt.Errorf("mapping has no source for field %q", field)
		}
	}

	return n, nil
}

func (n *Normalizer) maps(field string) bool {
	switch field {
	case domain.FieldDate:
		return n.dateField != ""
	case domain.FieldValue:
		return n.valueField != ""
	default:
		return n.ratingField != ""
	}
}

// Normalize fails on the first row whose date or value cannot be parsed.
// The input is never modified and output order follows input order.
func (n *Normalizer) Normalize(raw domain.RawTable) (domain.Table, error) {
	table := make(domain.Table, 0, len(raw.Rows))

	for i, row := range raw.Rows {
		dateText := strings.TrimSpace(row[n.dateField])
		date, err := n.codec.Parse(dateText)
		if err != nil {
			return nil, &domain.NormalizeError{
				Kind:  domain.DateFormat,
				Row:   i,
				Field: n.dateField,
				Text:  row[n.dateField],
				Err:   err,
			}
		}

		valueText := strings.TrimSpace(row[n.valueField])
		value, err := decimal.NewFromString(valueText)
		if err != nil {
			return nil, &domain.NormalizeError{
				Kind:  domain.ValueFormat,
				Row:   i,
				Field: n.valueField,
				Text:  row[n.valueField],
				Err:   err,
			}
		}

		table = append(table, domain.Record{
			Date:   date,
			Value:  value,
			Rating: strings.TrimSpace(row[n.ratingField]),
		})
	}

	return table, nil
}
