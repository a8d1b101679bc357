// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/crossref-search/pkg/types"
)

// SheetName is the worksheet holding exported records.
const SheetName = "Results"

// WriteXLSX writes items as a single-sheet workbook using the CSV column
// order and cell rules. Years are stored as numbers.
func WriteXLSX(w io.Writer, items []types.NormalizedRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for col, name := range Columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return fmt.Errorf("writing header %s: %w", name, err)
		}
	}

	for i, r := range items {
		for col, v := range Row(r) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			var value any = v
			if Columns[col] == "year" && r.Year != nil {
				value = *r.Year
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return fmt.Errorf("writing cell %s: %w", cell, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
