package auditlog

import (
	"context"

	"github.com/suPer8Hu/helpdesk/internal/common"
)

// ResolvedRecorder turns confirmed self-service resolutions into
// issue_resolved events.
type ResolvedRecorder struct {
	pub Publisher
}

func NewResolvedRecorder(pub Publisher) *ResolvedRecorder {
	return &ResolvedRecorder{pub: pub}
}

func (r *ResolvedRecorder) RecordResolved(ctx context.Context, name, designation, department, problem, resolution string) error {
	id, err := common.NewULID()
	if err != nil {
		return err
	}
	return r.pub.PublishEvent(ctx, Event{
		ID:          id,
		Kind:        KindIssueResolved,
		Name:        name,
		Designation: designation,
		Department:  department,
		Problem:     problem,
		Resolution:  resolution,
	})
}
