package geo

import (
	"math"
	"reflect"

	"github.com/spf13/cast"
)

// FromArray builds a geometry of the given kind from nested coordinate
// slices. The nesting depth of array must match the kind: a two-number slice
// for a point, and one more level per step up the chain. Both typed slices
// ([][]float64, ...) and decoded []any trees are accepted.
func FromArray(kind Kind, array any, referenceID int) (Model, error) {
	if !kind.Valid() {
		return nil, opErr("from array", ErrUnsupportedGeometryType, "kind %d", uint8(kind))
	}
	if kind == KindPoint {
		return PointFromArray(array, referenceID)
	}
	return multiFromArray(kind, array, referenceID)
}

// PointFromArray builds a point from an [x, y] slice.
func PointFromArray(array any, referenceID int) (Point, error) {
	const op = "point from array"

	items, ok := sequence(array)
	if !ok {
		return Point{}, opErr(op, ErrShapeMismatch, "want [x, y], got %T", array)
	}
	if len(items) != 2 {
		return Point{}, opErr(op, ErrShapeMismatch, "want 2 coordinates, got %d", len(items))
	}

	x, err := number(items[0])
	if err != nil {
		return Point{}, opErr(op, ErrShapeMismatch, "x: %v", err)
	}
	y, err := number(items[1])
	if err != nil {
		return Point{}, opErr(op, ErrShapeMismatch, "y: %v", err)
	}

	return NewPoint(x, y, referenceID), nil
}

// MultiPointFromArray builds a MultiPoint from [[x, y], ...].
func MultiPointFromArray(array any, referenceID int) (*Multi, error) {
	return multiFromArray(KindMultiPoint, array, referenceID)
}

// PolygonFromArray builds a Polygon from [[[x, y], ...], ...].
func PolygonFromArray(array any, referenceID int) (*Multi, error) {
	return multiFromArray(KindPolygon, array, referenceID)
}

// MultiPolygonFromArray builds a MultiPolygon from [[[[x, y], ...], ...], ...].
func MultiPolygonFromArray(array any, referenceID int) (*Multi, error) {
	return multiFromArray(KindMultiPolygon, array, referenceID)
}

func multiFromArray(kind Kind, array any, referenceID int) (*Multi, error) {
	items, ok := sequence(array)
	if !ok {
		return nil, opErr("from array", ErrShapeMismatch, "%s wants a sequence, got %T", kind, array)
	}
	if len(items) == 0 {
		return nil, opErr("from array", ErrEmptyComposite, "%s needs at least one element", kind)
	}

	elements := make([]Model, len(items))
	for i, sub := range items {
		e, err := FromArray(kind.Predecessor(), sub, referenceID)
		if err != nil {
			return nil, err
		}
		elements[i] = e
	}
	return NewMulti(kind, elements...)
}

// sequence returns the items of any slice or array value.
func sequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []float64:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// number coerces a decoded numeric leaf. Strings and bools are rejected even
// when cast could parse them, and so are NaN and infinities.
func number(v any) (float64, error) {
	switch v.(type) {
	case nil, string, bool:
		return 0, opErr("coordinate", ErrShapeMismatch, "%v (%T) is not a number", v, v)
	}
	if _, nested := sequence(v); nested {
		return 0, opErr("coordinate", ErrShapeMismatch, "got a nested sequence")
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, opErr("coordinate", ErrShapeMismatch, "%v is not finite", f)
	}
	return f, nil
}
