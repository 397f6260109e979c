// Package auditlog mirrors ticket activity into append-only workbooks. The
// workbooks are a secondary record: the primary store commits first and a
// failed append never rolls a ticket back.
package auditlog

import (
	"context"
	"time"
)

type Kind string

const (
	KindTicketCreated Kind = "ticket_created"
	KindIssueResolved Kind = "issue_resolved"
)

// Event is the queue payload for one workbook row.
type Event struct {
	ID   string `json:"id"` // ULID
	Kind Kind   `json:"kind"`

	// ticket_created fields (the fixed 11-column complaints log)
	ComplaintNo  string     `json:"complaint_no,omitempty"`
	EmployeeName string     `json:"employee_name,omitempty"`
	Department   string     `json:"department,omitempty"`
	EmployeeCode string     `json:"employee_code,omitempty"`
	Issue        string     `json:"issue,omitempty"`
	Status       string     `json:"status,omitempty"`
	CreatedAt    time.Time  `json:"created_at,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	Technician   string     `json:"technician,omitempty"`
	Comments     string     `json:"comments,omitempty"`

	// issue_resolved fields (the resolved-issues log)
	Name        string `json:"name,omitempty"`
	Designation string `json:"designation,omitempty"`
	Problem     string `json:"problem,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
}

// Publisher hands an event to the transport (rabbit queue or the synchronous
// writer, depending on deployment).
type Publisher interface {
	PublishEvent(ctx context.Context, ev Event) error
}
