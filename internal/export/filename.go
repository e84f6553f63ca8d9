package export

import (
	"fmt"

	"SentimentExporter/internal/domain"
)

// Filename names an export after the dates actually present in the table,
// not the requested bounds, so relative and unbounded ranges stay honest.
func Filename(label string, table domain.Table, ext string) string {
	minDate, maxDate, ok := table.Bounds()
	if !ok {
		return fmt.Sprintf("%s_empty.%s", label, ext)
	}
	return fmt.Sprintf("%s_%s_%s.%s", label, minDate.Format(domain.DateLayout), maxDate.Format(domain.DateLayout), ext)
}
