package geo

import (
	"encoding/json"
	"strings"
)

// Feature pairs an optional geometry with free-form properties.
type Feature struct {
	Geometry   Model
	Properties map[string]any
}

// NewFeature returns a feature. Both arguments may be nil.
func NewFeature(geometry Model, properties map[string]any) Feature {
	return Feature{Geometry: geometry, Properties: properties}
}

// ToJSON returns the GeoJSON feature object. Absent geometry and properties
// are encoded as null.
func (f Feature) ToJSON() GeoJSONFeature {
	out := GeoJSONFeature{
		Type:       TypeFeature,
		Properties: f.Properties,
	}
	if f.Geometry != nil {
		g := f.Geometry.ToJSON()
		out.Geometry = &g
	}
	return out
}

// MarshalJSON encodes the feature as a GeoJSON Feature object.
func (f Feature) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.ToJSON())
}

// FeatureFromJSON builds a feature. The type must be "Feature" in any case.
func FeatureFromJSON(j GeoJSONFeature, referenceID int) (Feature, error) {
	if !strings.EqualFold(j.Type, TypeFeature) {
		return Feature{}, opErr("feature from json", ErrMalformedGeoJSON, "type %q is not a feature", j.Type)
	}

	f := Feature{Properties: j.Properties}
	if j.Geometry != nil {
		m, err := FromJSON(*j.Geometry, referenceID)
		if err != nil {
			return Feature{}, err
		}
		f.Geometry = m
	}
	return f, nil
}

// FeatureCollection is an ordered list of features.
type FeatureCollection struct {
	Features []Feature
}

// ToJSON returns the GeoJSON feature collection object.
func (fc FeatureCollection) ToJSON() GeoJSONFeatureCollection {
	out := GeoJSONFeatureCollection{
		Type:     TypeFeatureCollection,
		Features: make([]GeoJSONFeature, len(fc.Features)),
	}
	for i, f := range fc.Features {
		out.Features[i] = f.ToJSON()
	}
	return out
}

// MarshalJSON encodes the collection as a GeoJSON FeatureCollection object.
func (fc FeatureCollection) MarshalJSON() ([]byte, error) {
	return json.Marshal(fc.ToJSON())
}

// FeatureCollectionFromJSON builds a collection, failing on the first
// malformed feature.
func FeatureCollectionFromJSON(j GeoJSONFeatureCollection, referenceID int) (FeatureCollection, error) {
	if !strings.EqualFold(j.Type, TypeFeatureCollection) {
		return FeatureCollection{}, opErr("feature collection from json", ErrMalformedGeoJSON, "type %q is not a feature collection", j.Type)
	}

	fc := FeatureCollection{Features: make([]Feature, len(j.Features))}
	for i, jf := range j.Features {
		f, err := FeatureFromJSON(jf, referenceID)
		if err != nil {
			return FeatureCollection{}, err
		}
		fc.Features[i] = f
	}
	return fc, nil
}

// Size is the number of points across all feature geometries.
func (fc FeatureCollection) Size() int {
	n := 0
	for _, f := range fc.Features {
		if f.Geometry != nil {
			n += f.Geometry.Size()
		}
	}
	return n
}
