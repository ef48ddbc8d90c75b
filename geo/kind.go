// Package geo models GeoJSON geometries as a strict containment hierarchy:
// Point -> MultiPoint -> Polygon -> MultiPolygon.
//
// Every composite kind wraps a non-empty sequence of its predecessor kind, so
// conversions, promotion, flattening and mapping are driven by a fixed
// four-entry kind table instead of runtime type inspection.
package geo

import "strconv"

// Kind identifies one of the concrete geometry kinds.
type Kind uint8

// Concrete kinds in chain depth order.
const (
	KindPoint Kind = iota
	KindMultiPoint
	KindPolygon
	KindMultiPolygon
)

type kindInfo struct {
	name        string
	predecessor Kind
	successor   Kind
}

// Indexed by Kind, so the index is also the chain depth.
var kindTable = [...]kindInfo{
	KindPoint:        {name: "Point", predecessor: KindPoint, successor: KindMultiPoint},
	KindMultiPoint:   {name: "MultiPoint", predecessor: KindPoint, successor: KindPolygon},
	KindPolygon:      {name: "Polygon", predecessor: KindMultiPoint, successor: KindMultiPolygon},
	KindMultiPolygon: {name: "MultiPolygon", predecessor: KindPolygon, successor: KindMultiPolygon},
}

// Kinds returns the registry of all concrete kinds, shallowest first.
func Kinds() []Kind {
	out := make([]Kind, len(kindTable))
	for i := range kindTable {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind resolves a GeoJSON geometry type name such as "Polygon".
func ParseKind(name string) (Kind, bool) {
	for i, info := range kindTable {
		if info.name == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Valid reports whether k is one of the registered kinds.
func (k Kind) Valid() bool {
	return int(k) < len(kindTable)
}

// String returns the GeoJSON geometry type name.
func (k Kind) String() string {
	if !k.Valid() {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindTable[k].name
}

// Depth is the position of k in the chain, 0 for Point and 3 for MultiPolygon.
func (k Kind) Depth() int {
	return int(k)
}

// Predecessor is the kind of k's elements. Point is its own predecessor.
func (k Kind) Predecessor() Kind {
	if !k.Valid() {
		return k
	}
	return kindTable[k].predecessor
}

// Successor is the kind that wraps a sequence of k. MultiPolygon saturates.
func (k Kind) Successor() Kind {
	if !k.Valid() {
		return k
	}
	return kindTable[k].successor
}

// Composite reports whether values of k carry elements.
func (k Kind) Composite() bool {
	return k != KindPoint
}

// MarshalText encodes k as its GeoJSON type name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, opErr("marshal kind", ErrUnsupportedGeometryType, "kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText parses a GeoJSON type name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, ok := ParseKind(string(text))
	if !ok {
		return opErr("unmarshal kind", ErrUnsupportedGeometryType, "%q", string(text))
	}
	*k = parsed
	return nil
}
