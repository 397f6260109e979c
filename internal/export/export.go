// Package export renders the admin complaint dump. One flat row set, three
// serializations (spreadsheet, delimited text, paginated document).
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/suPer8Hu/helpdesk/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

var Columns = []string{
	"Complaint No", "Employee Name", "Department & Code", "Issue", "Status",
	"Priority", "Created At", "Resolved At", "Assigned Technician", "Comments",
}

// BuildRows flattens complaints into the fixed export columns. Complaints
// must be loaded with User, Technician, and Comments(.User).
func BuildRows(complaints []models.Complaint) [][]string {
	rows := make([][]string, 0, len(complaints))
	for i := range complaints {
		c := &complaints[i]

		name := c.EmployeeName
		if name == "" {
			name = c.User.Username
		}
		dept := c.EmployeeDepartment
		if dept == "" {
			dept = c.User.Department
		}

		resolvedAt := ""
		if c.ResolvedAt != nil {
			resolvedAt = c.ResolvedAt.Format(timeLayout)
		}
		technician := ""
		if c.Technician != nil {
			technician = c.Technician.Username
		}

		commentLines := make([]string, 0, len(c.Comments))
		for j := range c.Comments {
			cm := &c.Comments[j]
			commentLines = append(commentLines, fmt.Sprintf("%s: %s", cm.User.Username, cm.Content))
		}

		rows = append(rows, []string{
			c.ComplaintNo,
			name,
			fmt.Sprintf("%s(%s)", dept, c.User.EmployeeCode),
			c.Issue,
			string(c.Status),
			string(c.Priority),
			c.CreatedAt.Format(timeLayout),
			resolvedAt,
			technician,
			strings.Join(commentLines, "\n"),
		})
	}
	return rows
}

// Excel writes the rows as an xlsx workbook with an emphasized header.
func Excel(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, col := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return nil, err
			}
		}
	}

	for i := range Columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, 18)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CSV writes the rows as delimited text.
func CSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PDF writes the rows as a paginated landscape table.
func PDF(rows [][]string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Complaints Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	widths := []float64{22, 28, 30, 50, 20, 18, 30, 30, 28, 40}

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(224, 224, 224)
		for i, col := range Columns {
			pdf.CellFormat(widths[i], 7, col, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	header()

	pdf.SetFont("Helvetica", "", 7)
	for _, row := range rows {
		if pdf.GetY() > 180 {
			pdf.AddPage()
			header()
			pdf.SetFont("Helvetica", "", 7)
		}
		for i, val := range row {
			// single-line cells: flatten newlines, trim to fit
			v := strings.ReplaceAll(val, "\n", "; ")
			if len(v) > 60 {
				v = v[:57] + "..."
			}
			pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
