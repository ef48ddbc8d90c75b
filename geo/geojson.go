package geo

import (
	"encoding/json"
	"strings"
)

// Top-level GeoJSON object types besides geometries.
const (
	TypeFeature           = "Feature"
	TypeFeatureCollection = "FeatureCollection"
)

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Type       string           `json:"type" yaml:"type"`
	Geometry   *GeoJSONGeometry `json:"geometry" yaml:"geometry"`
	Properties map[string]any   `json:"properties" yaml:"properties"`
}

// GeoJSONGeometry represents the geometry of a feature (Point, Polygon, etc.).
// Coordinates nest one level deeper per kind: [x, y] for a Point up to
// [[[[x, y]]]] for a MultiPolygon.
type GeoJSONGeometry struct {
	Type        string `json:"type" yaml:"type"`
	Coordinates any    `json:"coordinates" yaml:"coordinates"`
}

// GeoJSONObject holds any supported top-level object before its type is known.
type GeoJSONObject struct {
	Type        string           `json:"type" yaml:"type"`
	Coordinates any              `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Geometry    *GeoJSONGeometry `json:"geometry,omitempty" yaml:"geometry,omitempty"`
	Properties  map[string]any   `json:"properties,omitempty" yaml:"properties,omitempty"`
	Features    []GeoJSONFeature `json:"features,omitempty" yaml:"features,omitempty"`
}

func toJSON(m Model) GeoJSONGeometry {
	return GeoJSONGeometry{
		Type:        m.Kind().String(),
		Coordinates: m.ToArray(),
	}
}

func marshalGeometry(m Model) ([]byte, error) {
	return json.Marshal(toJSON(m))
}

// FromJSON builds a geometry from a GeoJSON geometry object, dispatching on
// its type through the kind registry.
func FromJSON(g GeoJSONGeometry, referenceID int) (Model, error) {
	const op = "from json"

	if g.Type == "" || g.Coordinates == nil {
		return nil, opErr(op, ErrMalformedGeoJSON, "type and coordinates are required")
	}

	kind, ok := ParseKind(g.Type)
	if !ok {
		return nil, opErr(op, ErrUnsupportedGeometryType, "%q", g.Type)
	}

	return FromArray(kind, g.Coordinates, referenceID)
}

// UnmarshalGeometry decodes a GeoJSON geometry from JSON bytes.
func UnmarshalGeometry(data []byte, referenceID int) (Model, error) {
	var g GeoJSONGeometry
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, opErr("unmarshal geometry", ErrMalformedGeoJSON, "%v", err)
	}
	return FromJSON(g, referenceID)
}

// IsGeometry reports whether the object is a bare geometry.
func (o GeoJSONObject) IsGeometry() bool {
	_, ok := ParseKind(o.Type)
	return ok
}

// Decode converts the object into a feature collection. A bare geometry
// becomes a single feature without properties, and a feature becomes a
// collection of one.
func (o GeoJSONObject) Decode(referenceID int) (FeatureCollection, error) {
	switch {
	case o.Type == "":
		return FeatureCollection{}, opErr("decode", ErrMalformedGeoJSON, "type is required")

	case strings.EqualFold(o.Type, TypeFeatureCollection):
		return FeatureCollectionFromJSON(GeoJSONFeatureCollection{Type: o.Type, Features: o.Features}, referenceID)

	case strings.EqualFold(o.Type, TypeFeature):
		f, err := FeatureFromJSON(GeoJSONFeature{Type: o.Type, Geometry: o.Geometry, Properties: o.Properties}, referenceID)
		if err != nil {
			return FeatureCollection{}, err
		}
		return FeatureCollection{Features: []Feature{f}}, nil
	}

	m, err := FromJSON(GeoJSONGeometry{Type: o.Type, Coordinates: o.Coordinates}, referenceID)
	if err != nil {
		return FeatureCollection{}, err
	}
	return FeatureCollection{Features: []Feature{{Geometry: m}}}, nil
}
