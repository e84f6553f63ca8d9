package export

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"SentimentExporter/internal/domain"
)

// Preview prints the first n rows of the table; n <= 0 prints everything.
func Preview(w io.Writer, tbl domain.Table, n int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{domain.FieldDate, domain.FieldValue, domain.FieldRating})

	shown := tbl
	if n > 0 && len(tbl) > n {
		shown = tbl[:n]
	}
	for _, rec := range shown {
		t.AppendRow(table.Row{rec.Date.Format(domain.DateLayout), rec.Value.String(), rec.Rating})
	}
	t.AppendFooter(table.Row{"rows", fmt.Sprintf("%d of %d", len(shown), len(tbl)), ""})
	t.Render()
}
