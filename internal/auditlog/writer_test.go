package auditlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	return rows
}

func TestWriter_TicketCreatedAppends(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	resolved := created.Add(90 * time.Minute)

	events := []Event{
		{
			ID: "01A", Kind: KindTicketCreated,
			ComplaintNo: "AB12CD34", EmployeeName: "alex", Department: "HR",
			EmployeeCode: "EMP001", Issue: "printer down", Status: "Open",
			CreatedAt: created, Technician: "tech1", Comments: "note",
		},
		{
			ID: "01B", Kind: KindTicketCreated,
			ComplaintNo: "EF56GH78", EmployeeName: "sam", Department: "Ops",
			EmployeeCode: "EMP002", Issue: "wifi down", Status: "Resolved",
			CreatedAt: created, ResolvedAt: &resolved, Technician: "tech2",
		},
	}
	for _, ev := range events {
		if err := w.Append(context.Background(), ev); err != nil {
			t.Fatalf("append %s: %v", ev.ID, err)
		}
	}

	rows := readRows(t, filepath.Join(dir, "complaints_log.xlsx"))
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Complaint No" || rows[0][9] != "Resolution Time (Hours)" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "AB12CD34" || rows[1][8] != "tech1" {
		t.Fatalf("first row = %v", rows[1])
	}
	// unresolved: empty resolved-at and duration cells
	if len(rows[1]) > 7 && rows[1][7] != "" {
		t.Fatalf("open ticket should have no resolved-at, got %q", rows[1][7])
	}
	if rows[2][7] != "2025-03-10 10:30:00" || rows[2][9] != "1.5" {
		t.Fatalf("second row = %v", rows[2])
	}
}

func TestWriter_IssueResolvedAppends(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	ev := Event{
		ID: "01C", Kind: KindIssueResolved,
		Name: "alex", Designation: "engineer", Department: "r&d",
		Problem: "wifi down", Resolution: "restarted the router",
	}
	if err := w.Append(context.Background(), ev); err != nil {
		t.Fatalf("append: %v", err)
	}

	rows := readRows(t, filepath.Join(dir, "user_data.xlsx"))
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[0][0] != "Name" || rows[0][4] != "Resolution" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "alex" || rows[1][3] != "wifi down" {
		t.Fatalf("row = %v", rows[1])
	}
}

func TestWriter_UnknownKind(t *testing.T) {
	w := NewWriter(t.TempDir())
	if err := w.Append(context.Background(), Event{ID: "01D", Kind: "bogus"}); err == nil {
		t.Fatalf("unknown kind should error")
	}
}
