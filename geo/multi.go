package geo

// Multi is a composite geometry: a MultiPoint, Polygon or MultiPolygon,
// depending on its kind. Its elements are all of kind.Predecessor() and its
// reference id is the one of its first element.
type Multi struct {
	kind     Kind
	elements []Model
	ref      int
}

// NewMulti builds a composite of the given kind. Elements must be of the
// kind's predecessor and there must be at least one.
func NewMulti(kind Kind, elements ...Model) (*Multi, error) {
	const op = "new multi"

	if !kind.Valid() || !kind.Composite() {
		return nil, opErr(op, ErrShapeMismatch, "%s is not a composite kind", kind)
	}
	if len(elements) == 0 {
		return nil, opErr(op, ErrEmptyComposite, "%s needs at least one element", kind)
	}

	want := kind.Predecessor()
	for i, e := range elements {
		if e == nil {
			return nil, opErr(op, ErrShapeMismatch, "%s element %d is nil", kind, i)
		}
		if e.Kind() != want {
			return nil, opErr(op, ErrShapeMismatch, "%s element %d is a %s, want %s", kind, i, e.Kind(), want)
		}
	}

	owned := make([]Model, len(elements))
	copy(owned, elements)

	return &Multi{kind: kind, elements: owned, ref: owned[0].ReferenceID()}, nil
}

// NewMultiPoint builds a MultiPoint from points.
func NewMultiPoint(points ...Point) (*Multi, error) {
	elements := make([]Model, len(points))
	for i, p := range points {
		elements[i] = p
	}
	return NewMulti(KindMultiPoint, elements...)
}

// NewPolygon builds a Polygon from MultiPoint rings.
func NewPolygon(rings ...*Multi) (*Multi, error) {
	return NewMulti(KindPolygon, multisToModels(rings)...)
}

// NewMultiPolygon builds a MultiPolygon from polygons.
func NewMultiPolygon(polygons ...*Multi) (*Multi, error) {
	return NewMulti(KindMultiPolygon, multisToModels(polygons)...)
}

func multisToModels(in []*Multi) []Model {
	out := make([]Model, len(in))
	for i, m := range in {
		if m != nil {
			out[i] = m
		}
	}
	return out
}

// Kind implements Model.
func (m *Multi) Kind() Kind { return m.kind }

// ReferenceID implements Model.
func (m *Multi) ReferenceID() int { return m.ref }

// Len is the number of direct elements.
func (m *Multi) Len() int { return len(m.elements) }

// Elements returns a copy of the direct elements.
func (m *Multi) Elements() []Model {
	out := make([]Model, len(m.elements))
	copy(out, m.elements)
	return out
}

// Element returns the i-th direct element.
func (m *Multi) Element(i int) Model { return m.elements[i] }

// Size is the sum of the element sizes.
func (m *Multi) Size() int {
	n := 0
	for _, e := range m.elements {
		n += e.Size()
	}
	return n
}

// ToArray returns [][]float64, [][][]float64 or [][][][]float64 for
// MultiPoint, Polygon and MultiPolygon respectively.
func (m *Multi) ToArray() any {
	switch m.kind {
	case KindMultiPoint:
		out := make([][]float64, len(m.elements))
		for i, e := range m.elements {
			out[i] = e.ToArray().([]float64)
		}
		return out
	case KindPolygon:
		out := make([][][]float64, len(m.elements))
		for i, e := range m.elements {
			out[i] = e.ToArray().([][]float64)
		}
		return out
	case KindMultiPolygon:
		out := make([][][][]float64, len(m.elements))
		for i, e := range m.elements {
			out[i] = e.ToArray().([][][]float64)
		}
		return out
	}
	return []any{}
}

// ToJSON implements Model.
func (m *Multi) ToJSON() GeoJSONGeometry {
	return toJSON(m)
}

// MarshalJSON encodes the composite as a GeoJSON geometry.
func (m *Multi) MarshalJSON() ([]byte, error) {
	return marshalGeometry(m)
}

// Equal implements Model.
func (m *Multi) Equal(other Model) bool {
	o, ok := other.(*Multi)
	if !ok || o == nil || m == nil {
		return false
	}
	if m == o {
		return true
	}
	if m.kind != o.kind || m.ref != o.ref || len(m.elements) != len(o.elements) {
		return false
	}
	for i := range m.elements {
		if !m.elements[i].Equal(o.elements[i]) {
			return false
		}
	}
	return true
}

// Contains reports whether any element equals other or contains it.
func (m *Multi) Contains(other Model) bool {
	if other == nil {
		return false
	}
	for _, e := range m.elements {
		if e.Equal(other) || e.Contains(other) {
			return true
		}
	}
	return false
}

// PromoteTo implements Model.
func (m *Multi) PromoteTo(target Kind) (Model, error) {
	if len(m.elements) == 0 {
		return nil, opErr("promote", ErrEmptyComposite, "%s has no elements", m.kind)
	}
	return promote(m, target)
}

// Flatten collapses one level keeping only the first element, rebuilt as the
// predecessor kind with this geometry's reference id.
func (m *Multi) Flatten() (Model, error) {
	if len(m.elements) == 0 {
		return nil, opErr("flatten", ErrEmptyComposite, "%s has no elements", m.kind)
	}
	return FromArray(m.kind.Predecessor(), m.elements[0].ToArray(), m.ref)
}

// MapElements returns a composite of the same kind whose elements are fn
// applied to each element. fn must return values of the element kind.
func (m *Multi) MapElements(fn func(Model) Model) (*Multi, error) {
	mapped := make([]Model, len(m.elements))
	for i, e := range m.elements {
		mapped[i] = fn(e)
	}
	return NewMulti(m.kind, mapped...)
}

// MapSubElements applies fn to every nested geometry of the target kind,
// however deep, and rebuilds the tree around the results.
func (m *Multi) MapSubElements(target Kind, fn func(Model) Model) (*Multi, error) {
	if !target.Valid() || target.Depth() >= m.kind.Depth() {
		return nil, opErr("map sub-elements", ErrShapeMismatch, "%s is not nested inside %s", target, m.kind)
	}
	if m.kind.Predecessor() == target {
		return m.MapElements(fn)
	}

	mapped := make([]Model, len(m.elements))
	for i, e := range m.elements {
		sub, ok := e.(*Multi)
		if !ok {
			return nil, opErr("map sub-elements", ErrShapeMismatch, "element %d of %s is a %s", i, m.kind, e.Kind())
		}
		next, err := sub.MapSubElements(target, fn)
		if err != nil {
			return nil, err
		}
		mapped[i] = next
	}
	return NewMulti(m.kind, mapped...)
}

// MapPoints applies fn to every point nested in m.
func (m *Multi) MapPoints(fn func(Point) Point) (*Multi, error) {
	return m.MapSubElements(KindPoint, func(e Model) Model {
		p, ok := asPoint(e)
		if !ok {
			return e
		}
		return fn(p)
	})
}
