package ai

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the model cannot be reached or produced no
// text. Callers fall back to canned troubleshooting content instead of
// surfacing this to the user.
var ErrUnavailable = errors.New("ai: service unavailable")

// Provider generates troubleshooting text for a problem description.
type Provider interface {
	Generate(ctx context.Context, query string) (string, error)
}
