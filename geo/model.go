package geo

// Model is any geometry of the hierarchy.
type Model interface {
	// Kind is the concrete kind tag.
	Kind() Kind
	// ReferenceID identifies the spatial reference system. It is carried and
	// compared but never interpreted.
	ReferenceID() int
	// Size is the number of points reachable from this geometry.
	Size() int
	// ToArray returns the nested coordinate slices, one level per chain depth.
	ToArray() any
	// ToJSON returns the GeoJSON geometry object.
	ToJSON() GeoJSONGeometry
	// Equal reports structural equality, reference id included.
	Equal(other Model) bool
	// Contains reports whether some nested part of this geometry equals other.
	Contains(other Model) bool
	// PromoteTo wraps the geometry in single-element composites until it is of
	// the target kind.
	PromoteTo(target Kind) (Model, error)
}

var (
	_ Model = Point{}
	_ Model = (*Multi)(nil)
)

// Point is the atomic geometry.
type Point struct {
	x, y float64
	ref  int
}

// NewPoint returns a point. Pass 0 as referenceID when it is unknown.
func NewPoint(x, y float64, referenceID int) Point {
	return Point{x: x, y: y, ref: referenceID}
}

// X is the first coordinate.
func (p Point) X() float64 { return p.x }

// Y is the second coordinate.
func (p Point) Y() float64 { return p.y }

// Kind implements Model.
func (p Point) Kind() Kind { return KindPoint }

// ReferenceID implements Model.
func (p Point) ReferenceID() int { return p.ref }

// Size is always 1 for a point.
func (p Point) Size() int { return 1 }

// ToArray returns []float64{x, y}.
func (p Point) ToArray() any {
	return []float64{p.x, p.y}
}

// ToJSON implements Model.
func (p Point) ToJSON() GeoJSONGeometry {
	return toJSON(p)
}

// Equal implements Model.
func (p Point) Equal(other Model) bool {
	o, ok := asPoint(other)
	if !ok {
		return false
	}
	return p.ref == o.ref && p.x == o.x && p.y == o.y
}

// Contains is always false: a point has no nested parts.
func (p Point) Contains(Model) bool { return false }

// PromoteTo implements Model.
func (p Point) PromoteTo(target Kind) (Model, error) {
	return promote(p, target)
}

// MarshalJSON encodes the point as a GeoJSON geometry.
func (p Point) MarshalJSON() ([]byte, error) {
	return marshalGeometry(p)
}

func asPoint(m Model) (Point, bool) {
	switch v := m.(type) {
	case Point:
		return v, true
	case *Point:
		if v == nil {
			return Point{}, false
		}
		return *v, true
	}
	return Point{}, false
}

func promote(m Model, target Kind) (Model, error) {
	if !target.Valid() {
		return nil, opErr("promote", ErrInvalidPromotion, "unknown target %s", target)
	}
	if target.Depth() < m.Kind().Depth() {
		return nil, opErr("promote", ErrInvalidPromotion, "%s is not reachable from %s", target, m.Kind())
	}

	cur := m
	for cur.Kind() != target {
		next, err := FromArray(cur.Kind().Successor(), []any{cur.ToArray()}, cur.ReferenceID())
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
