package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

// WriteXLSX writes the day's entries, oldest first, followed by a summary row.
func WriteXLSX(w io.Writer, v View) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName(exportSheet, v.DayKey); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(v.DayKey)
	if err != nil {
		return err
	}
	header := []interface{}{"Zeit", "Getränk", "ml", "Faktor", "Hydration ml"}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	row := 2
	for i := len(v.Entries) - 1; i >= 0; i-- {
		e := v.Entries[i]
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := sw.SetRow(cell, []interface{}{e.Time, e.Type, e.Ml, e.Factor, e.Hydration}); err != nil {
			return err
		}
		row++
	}

	cell, _ := excelize.CoordinatesToCellName(1, row+1)
	summary := []interface{}{"Summe", "", "", fmt.Sprintf("Ziel %d ml", v.GoalMl), v.HydrationMl}
	if err := sw.SetRow(cell, summary); err != nil {
		return err
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	return f.Write(w)
}
