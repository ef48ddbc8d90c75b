package processor

import (
	"fmt"
	"math"

	"github.com/woozymasta/geomodels/geo"

	"github.com/rs/zerolog/log"
)

// Options selects the operations applied to every geometry. They run in the
// order flatten, promote, shift.
type Options struct {
	Flatten bool
	Promote string
	ShiftX  float64
	ShiftY  float64
}

// Step transforms a single geometry.
type Step struct {
	Name  string
	Apply func(geo.Model) (geo.Model, error)
}

// Pipeline is an ordered list of steps.
type Pipeline []Step

// NewPipeline builds the steps selected by opts.
func NewPipeline(opts Options) (Pipeline, error) {
	var p Pipeline

	if opts.Flatten {
		p = append(p, Step{Name: "flatten", Apply: flatten})
	}

	if opts.Promote != "" {
		target, ok := geo.ParseKind(opts.Promote)
		if !ok {
			return nil, fmt.Errorf("promote target %q: %w", opts.Promote, geo.ErrUnsupportedGeometryType)
		}
		p = append(p, Step{Name: "promote", Apply: func(m geo.Model) (geo.Model, error) {
			return m.PromoteTo(target)
		}})
	}

	if opts.ShiftX != 0 || opts.ShiftY != 0 {
		if !finite(opts.ShiftX) || !finite(opts.ShiftY) {
			return nil, fmt.Errorf("shift (%g, %g) is not finite: %w", opts.ShiftX, opts.ShiftY, geo.ErrShapeMismatch)
		}
		p = append(p, Step{Name: "shift", Apply: shift(opts.ShiftX, opts.ShiftY)})
	}

	return p, nil
}

// Apply runs every step on m.
func (p Pipeline) Apply(m geo.Model) (geo.Model, error) {
	cur := m
	for _, step := range p {
		next, err := step.Apply(cur)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", step.Name, cur.Kind(), err)
		}

		log.Trace().
			Str("step", step.Name).
			Stringer("from", cur.Kind()).
			Stringer("to", next.Kind()).
			Int("size", next.Size()).
			Msg("Step applied")

		cur = next
	}
	return cur, nil
}

// ApplyCollection runs the pipeline on every feature geometry. Features
// without a geometry are passed through.
func (p Pipeline) ApplyCollection(fc geo.FeatureCollection) (geo.FeatureCollection, error) {
	out := geo.FeatureCollection{Features: make([]geo.Feature, len(fc.Features))}

	for i, f := range fc.Features {
		out.Features[i] = f
		if f.Geometry == nil {
			continue
		}

		m, err := p.Apply(f.Geometry)
		if err != nil {
			return geo.FeatureCollection{}, fmt.Errorf("feature %d: %w", i, err)
		}
		out.Features[i].Geometry = m
	}
	return out, nil
}

func flatten(m geo.Model) (geo.Model, error) {
	multi, ok := m.(*geo.Multi)
	if !ok {
		return nil, fmt.Errorf("a %s has no elements: %w", m.Kind(), geo.ErrShapeMismatch)
	}
	return multi.Flatten()
}

// shift moves every point by (dx, dy). A point pushed out of the float64
// range fails the step.
func shift(dx, dy float64) func(geo.Model) (geo.Model, error) {
	return func(m geo.Model) (geo.Model, error) {
		var overflow *geo.Point
		move := func(p geo.Point) geo.Point {
			moved := geo.NewPoint(p.X()+dx, p.Y()+dy, p.ReferenceID())
			if overflow == nil && (!finite(moved.X()) || !finite(moved.Y())) {
				overflow = &p
			}
			return moved
		}

		var (
			out geo.Model
			err error
		)
		switch v := m.(type) {
		case geo.Point:
			out = move(v)
		case *geo.Multi:
			out, err = v.MapPoints(move)
		default:
			return nil, fmt.Errorf("unexpected geometry %T: %w", m, geo.ErrShapeMismatch)
		}
		if err != nil {
			return nil, err
		}

		if overflow != nil {
			return nil, fmt.Errorf("point (%g, %g) is not finite after shift: %w", overflow.X(), overflow.Y(), geo.ErrShapeMismatch)
		}
		return out, nil
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
