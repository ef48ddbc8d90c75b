package geo

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by this package unwraps to one of them.
var (
	ErrMalformedGeoJSON        = errors.New("malformed geojson")
	ErrUnsupportedGeometryType = errors.New("unsupported geometry type")
	ErrShapeMismatch           = errors.New("shape mismatch")
	ErrEmptyComposite          = errors.New("empty composite")
	ErrInvalidPromotion        = errors.New("invalid promotion")
)

// OpError records the operation that failed along with the sentinel cause.
type OpError struct {
	Op     string
	Err    error
	Detail string
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("geo: %s: %v", e.Op, e.Err)
	if e.Detail != "" {
		base += ": " + e.Detail
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func opErr(op string, err error, format string, args ...any) error {
	return &OpError{Op: op, Err: err, Detail: fmt.Sprintf(format, args...)}
}
