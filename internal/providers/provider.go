package providers

import (
	"context"
	"errors"
	"fmt"

	"netra/internal/mission"
)

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrUnauthenticated    = errors.New("unauthenticated: login first")
)

// Searcher is one imagery data source. Callers pass validated parameters;
// implementations do not re-check bounds.
type Searcher interface {
	Name() string
	Search(ctx context.Context, params mission.Parameters) ([]mission.Scene, error)
}

// StatusError is a non-2xx answer from a remote service.
type StatusError struct {
	Op     string
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Status, e.Detail)
}
