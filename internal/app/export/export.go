// Package export writes health records to an XLSX workbook.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/consolahealth/studenthealth/internal/app/healthmetrics"
	"github.com/consolahealth/studenthealth/internal/app/models"
)

// SheetName is the single sheet of the workbook
const SheetName = "Health Records"

// ContentType is the MIME type served with a workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HealthRecordHeader is the column order of an export
var HealthRecordHeader = []string{
	"Student ID",
	"Last Name",
	"First Name",
	"Course",
	"School Year",
	"Checkup Date",
	"Weight (kg)",
	"Height (cm)",
	"BMI",
	"Category",
	"Systolic",
	"Diastolic",
	"BP Status",
	"Temperature (°C)",
	"Vision",
	"Urine Test",
}

var columnWidths = []float64{12, 18, 18, 12, 12, 14, 12, 12, 8, 16, 10, 10, 22, 16, 12, 12}

// HealthRecords builds a workbook with one row per record, in the given order
func HealthRecords(records []*models.HealthRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeHeader(f); err != nil {
		return nil, err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		row := recordRow(r)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(HealthRecordHeader))
	for i, h := range HealthRecordHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(len(HealthRecordHeader), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}

func recordRow(r *models.HealthRecord) []interface{} {
	m := healthmetrics.RecordMetrics(r)

	var sid, lastName, firstName, course interface{}
	if r.Student != nil {
		sid = r.Student.SID
		lastName = r.Student.LastName
		firstName = r.Student.FirstName
		course = r.Student.Department
	}

	var bmi interface{} = ""
	if m.BMI != nil {
		bmi = *m.BMI
	}
	var vision interface{} = ""
	if r.Vision != nil {
		vision = *r.Vision
	}

	return []interface{}{
		sid,
		lastName,
		firstName,
		course,
		r.SchoolYearLabel(),
		r.CheckupDate.Format(healthmetrics.DateLayout),
		r.Weight,
		r.Height,
		bmi,
		healthmetrics.CategoryLabels[m.HealthCategory],
		r.SystolicBP,
		r.DiastolicBP,
		m.BPStatus,
		r.Temperature,
		vision,
		r.UrineTest,
	}
}
