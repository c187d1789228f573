// Package export renders reports as an xlsx workbook and archives the
// generated files in object storage.
package export

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/techreport/internal/server/models"
	"github.com/xuri/excelize/v2"
)

const (
	// FileName is the download name and the on-disk name of the export.
	FileName = "Technician_Report.xlsx"
	// SheetName is the only sheet of the workbook.
	SheetName = "Reports"
	// ContentType is the MIME type of xlsx files.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Header is the first row of every export.
var Header = []string{"ID", "Location", "Date", "Machine Number", "Technician Name", "Problem Solved"}

// WriteWorkbook writes reports, in the order given, below Header.
func WriteWorkbook(w io.Writer, reports []models.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range reports {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r.ID, r.Location, r.Date, r.MachineNumber, r.TechnicianName, r.ProblemSolved}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r.ID, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
