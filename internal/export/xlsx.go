package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"SentimentExporter/internal/domain"
)

const sheetName = "data"

// XLSX renders the table as a single-sheet workbook with the CSV columns.
func XLSX(table domain.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(domain.CanonicalFields))
	for i, name := range domain.CanonicalFields {
		header[i] = name
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, rec := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		value, _ := rec.Value.Float64()
		row := []interface{}{rec.Date.Format(domain.DateLayout), value, rec.Rating}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
