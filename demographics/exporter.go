package demographics

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Exporter renders an aggregation result as an Excel workbook, one sheet per
// dashboard chart, for offline reporting.
type Exporter struct {
	agg *Aggregates
}

// NewExporter creates an exporter over a finished aggregation result.
func NewExporter(agg *Aggregates) *Exporter {
	return &Exporter{agg: agg}
}

// WriteExcel writes the full workbook to w.
func (e *Exporter) WriteExcel(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sheets := []struct {
		name string
		rows []NameValue
	}{
		{"Families per Purok", e.agg.FamiliesPerPurok},
		{"Households per Purok", e.agg.HouseholdsPerPurok},
		{"Civil Status", e.agg.CivilStatusTotals},
		{"Family Planning", e.agg.FamilyPlanningTotals},
		{"Religion", e.agg.ReligionTotals},
		{"Community Groups", e.agg.CommunityGroupTotals},
		{"Education", e.agg.EducationTotals},
		{"Occupation", e.agg.OccupationTotals},
	}

	for _, sheet := range sheets {
		if err := writeNameValueSheet(f, sheet.name, sheet.rows, headerStyle); err != nil {
			return err
		}
	}

	if err := e.writeGenderSheet(f, headerStyle); err != nil {
		return err
	}

	// Drop the default sheet excelize creates with the file.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeNameValueSheet(f *excelize.File, name string, rows []NameValue, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	headers := []string{"Name", "Count"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(name, cell, header)
		f.SetCellStyle(name, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		line := rowIdx + 2
		f.SetCellValue(name, fmt.Sprintf("A%d", line), row.Name)
		f.SetCellValue(name, fmt.Sprintf("B%d", line), row.Value)
	}

	f.SetColWidth(name, "A", "A", 30)
	f.SetColWidth(name, "B", "B", 12)
	return nil
}

func (e *Exporter) writeGenderSheet(f *excelize.File, headerStyle int) error {
	name := "Gender"
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	headers := []string{"Purok", "Male", "Female"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(name, cell, header)
		f.SetCellStyle(name, cell, cell, headerStyle)
	}

	for rowIdx, row := range e.agg.GenderPerPurok {
		line := rowIdx + 2
		f.SetCellValue(name, fmt.Sprintf("A%d", line), row.Name)
		f.SetCellValue(name, fmt.Sprintf("B%d", line), row.Male)
		f.SetCellValue(name, fmt.Sprintf("C%d", line), row.Female)
	}

	totalLine := len(e.agg.GenderPerPurok) + 2
	f.SetCellValue(name, fmt.Sprintf("A%d", totalLine), "Total")
	f.SetCellValue(name, fmt.Sprintf("B%d", totalLine), e.agg.GenderTotals.Male)
	f.SetCellValue(name, fmt.Sprintf("C%d", totalLine), e.agg.GenderTotals.Female)

	f.SetColWidth(name, "A", "A", 30)
	f.SetColWidth(name, "B", "C", 12)
	return nil
}
