package gridgeom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMismatchedDimension is returned when the dimensions of an extent, an
	// envelope or a transform do not agree.
	ErrMismatchedDimension = errors.New("mismatched dimension")
	// ErrInvalidGridGeometry is returned when querying a component a grid geometry
	// does not carry, or when its envelope cannot be computed.
	ErrInvalidGridGeometry = errors.New("invalid grid geometry")
	// ErrInvalidArgument is returned for construction-time precondition failures.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrCannotEvaluate is returned when a transform fails for a given point.
	ErrCannotEvaluate = errors.New("cannot evaluate transform")
	// ErrNoninvertible is returned by Inverse on singular transforms.
	ErrNoninvertible = errors.New("noninvertible transform")
	// ErrNotAffine is returned when an operation requires a location independent
	// jacobian and the transform does not provide one.
	ErrNotAffine = errors.New("transform is not affine")
	// ErrNotSeparable is returned when a transform cannot be restricted to a subset
	// of its dimensions.
	ErrNotSeparable = errors.New("transform is not separable")
)

// DimensionError reports a dimension disagreement. It matches ErrMismatchedDimension
// with errors.Is.
type DimensionError struct {
	What      string
	Got, Want int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("mismatched dimension: %s has dimension %d, expected %d", e.What, e.Got, e.Want)
}

func (e *DimensionError) Is(target error) bool {
	return target == ErrMismatchedDimension
}

func mismatched(what string, got, want int) error {
	return &DimensionError{What: what, Got: got, Want: want}
}

// EvaluationError is returned when a transform cannot be applied to Point. It
// matches ErrCannotEvaluate with errors.Is, and unwraps to the transform failure.
type EvaluationError struct {
	Point []float64
	Err   error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("cannot evaluate transform at %s: %v", formatPoint(e.Point), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Is(target error) bool {
	return target == ErrCannotEvaluate
}

// formatPoint renders coordinates as POINT(x y ...)
func formatPoint(pt []float64) string {
	sb := strings.Builder{}
	sb.WriteString("POINT(")
	for i, v := range pt {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	sb.WriteByte(')')
	return sb.String()
}

// ErrorHandler receives the errors swallowed by best-effort operations, i.e.
// operations that degrade to an "unknown" result instead of failing. It is up to
// the ErrorHandler to log the error if needed.
type ErrorHandler func(err error)

type errorCallback struct {
	fn ErrorHandler
}

// ErrLogger installs an ErrorHandler on a best-effort operation.
func ErrLogger(fn ErrorHandler) interface {
	AxisInversionOption
	InverseBoundsOption
} {
	return errorCallback{fn}
}

func (ec errorCallback) setAxisInversionOpt(o *bestEffortOpts) {
	o.errorHandler = ec.fn
}
func (ec errorCallback) setInverseBoundsOpt(o *bestEffortOpts) {
	o.errorHandler = ec.fn
}

type bestEffortOpts struct {
	errorHandler ErrorHandler
}

func (o bestEffortOpts) report(err error) {
	if o.errorHandler != nil && err != nil {
		o.errorHandler(err)
	}
}
