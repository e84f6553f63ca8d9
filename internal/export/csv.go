package export

import (
	"bytes"
	"encoding/csv"

	"SentimentExporter/internal/domain"
)

// CSV renders the table as UTF-8 CSV with a fixed date,value,rating header.
// The output depends only on the table contents.
func CSV(table domain.Table) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// Writes into a bytes.Buffer cannot fail.
	_ = w.Write(domain.CanonicalFields)
	for _, rec := range table {
		_ = w.Write([]string{
			rec.Date.Format(domain.DateLayout),
			rec.Value.String(),
			rec.Rating,
		})
	}
	w.Flush()

	return buf.Bytes()
}
