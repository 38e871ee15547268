package earley

import (
	"errors"
	"fmt"
)

var ErrResourceExhausted = errors.New("resource exhausted")

// ResourceExhaustedError reports that a parse stopped because the chart reached the state limit. The
// parse result returned with this error holds the partial chart.
type ResourceExhaustedError struct {
	Limit int
	Pos   int
}

func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("%v: the chart exceeded %v states at position %v", ErrResourceExhausted, e.Limit, e.Pos)
}

func (e *ResourceExhaustedError) Unwrap() error {
	return ErrResourceExhausted
}
