package processor

import (
	"strings"

	"github.com/woozymasta/geomodels/geo"
)

// Request describes one conversion run.
type Request struct {
	ReferenceID int
	Format      string
	Minify      bool
	Options     Options
}

// Result is the encoded output together with a summary of what was read.
type Result struct {
	Output   []byte
	Type     string
	Features int
	Size     int
}

// Process decodes a GeoJSON document, applies the requested operations and
// encodes the result in the same shape as the input: a bare geometry stays a
// geometry and a feature stays a feature.
func Process(data []byte, req Request) (Result, error) {
	obj, err := DecodeObject(data)
	if err != nil {
		return Result{}, err
	}

	fc, err := obj.Decode(req.ReferenceID)
	if err != nil {
		return Result{}, err
	}

	pipeline, err := NewPipeline(req.Options)
	if err != nil {
		return Result{}, err
	}

	fc, err = pipeline.ApplyCollection(fc)
	if err != nil {
		return Result{}, err
	}

	var out any
	switch {
	case obj.IsGeometry():
		out = fc.Features[0].Geometry.ToJSON()
	case strings.EqualFold(obj.Type, geo.TypeFeature):
		out = fc.Features[0].ToJSON()
	default:
		out = fc.ToJSON()
	}

	encoded, err := Encode(out, req.Format, req.Minify)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Output:   encoded,
		Type:     obj.Type,
		Features: len(fc.Features),
		Size:     fc.Size(),
	}, nil
}
