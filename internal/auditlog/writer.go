package auditlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
)

const (
	complaintsLogFile = "complaints_log.xlsx"
	resolvedLogFile   = "user_data.xlsx"
	timeLayout        = "2006-01-02 15:04:05"
)

var complaintsHeader = []any{
	"Complaint No", "Employee Name", "Department", "Employee Code",
	"Issue Description", "Status", "Created At", "Resolved At",
	"Technician Name", "Resolution Time (Hours)", "Comments",
}

var resolvedHeader = []any{"Name", "Designation", "Department", "Problem", "Resolution"}

// Writer appends event rows to the workbook logs under dataDir. Appends are
// read-modify-write on a whole file, so they are serialized.
type Writer struct {
	mu      sync.Mutex
	dataDir string
}

func NewWriter(dataDir string) *Writer {
	return &Writer{dataDir: dataDir}
}

func (w *Writer) PublishEvent(ctx context.Context, ev Event) error {
	return w.Append(ctx, ev)
}

func (w *Writer) Append(ctx context.Context, ev Event) error {
	_ = ctx
	switch ev.Kind {
	case KindTicketCreated:
		resolvedAt := ""
		duration := ""
		if ev.ResolvedAt != nil {
			resolvedAt = ev.ResolvedAt.Format(timeLayout)
			duration = fmt.Sprintf("%.1f", ev.ResolvedAt.Sub(ev.CreatedAt).Hours())
		}
		return w.appendRow(complaintsLogFile, complaintsHeader, []any{
			ev.ComplaintNo, ev.EmployeeName, ev.Department, ev.EmployeeCode,
			ev.Issue, ev.Status, ev.CreatedAt.Format(timeLayout), resolvedAt,
			ev.Technician, duration, ev.Comments,
		})
	case KindIssueResolved:
		return w.appendRow(resolvedLogFile, resolvedHeader, []any{
			ev.Name, ev.Designation, ev.Department, ev.Problem, ev.Resolution,
		})
	}
	return fmt.Errorf("auditlog: unknown event kind %q", ev.Kind)
}

func (w *Writer) appendRow(name string, header, row []any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := filepath.Join(w.dataDir, name)

	var f *excelize.File
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(w.dataDir, 0o755); err != nil {
			return err
		}
		f = excelize.NewFile()
		sheet := f.GetSheetName(0)
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			f.Close()
			return err
		}
	} else {
		var err error
		f, err = excelize.OpenFile(path)
		if err != nil {
			return err
		}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return err
	}
	return f.SaveAs(path)
}
