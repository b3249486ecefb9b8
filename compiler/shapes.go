package compiler

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/svgworld/options"
	"github.com/milk9111/svgworld/physics"
	"github.com/milk9111/svgworld/svg"
)

const (
	defaultCircleRadius      = 10.0
	defaultCircleRestitution = 0.2
	minPolygonArea           = 1e-9
)

// buildPolygon turns path geometry into a polygon shape in body-local
// coordinates.
func buildPolygon(id string, segs []svg.Segment, opts options.Options) (*physics.Shape, error) {
	points := svg.Vertices(segs)
	if len(points) < 3 {
		return nil, &physics.Error{Kind: physics.DegenerateGeometry, ID: id, Expected: 3, Actual: len(points)}
	}

	verts := make([]cp.Vector, len(points))
	for i, p := range points {
		verts[i] = cp.Vector{X: p.X, Y: p.Y}
	}
	if hullArea(verts) < minPolygonArea {
		return nil, &physics.Error{Kind: physics.DegenerateGeometry, ID: id, Actual: len(points), Detail: "polygon has no area"}
	}

	s := &physics.Shape{
		ID:       id,
		Kind:     physics.Polygon,
		Vertices: verts,
		Density:  opts.EffectiveDensity(),
		Friction: physics.DefaultFriction,
		Hidden:   opts.Hidden,
	}
	applySurface(s, opts)
	return s, nil
}

// buildBox turns a rect into a box whose offset is the rect center.
func buildBox(el *svg.Element, id string, opts options.Options) (*physics.Shape, error) {
	w := el.Number("width")
	h := el.Number("height")
	if w <= 0 || h <= 0 {
		return nil, &physics.Error{Kind: physics.DegenerateGeometry, ID: id, Detail: "rect needs a positive width and height"}
	}

	hw, hh := w/2, h/2
	s := &physics.Shape{
		ID:         id,
		Kind:       physics.Box,
		HalfWidth:  hw,
		HalfHeight: hh,
		Offset:     cp.Vector{X: el.Number("x") + hw, Y: el.Number("y") + hh},
		Density:    opts.EffectiveDensity(),
		Friction:   physics.DefaultFriction,
		Hidden:     opts.Hidden,
	}
	applySurface(s, opts)
	return s, nil
}

// buildCircle turns a circle element into a circle shape. Missing or
// non-positive radii fall back to 10.
func buildCircle(el *svg.Element, id string, opts options.Options) *physics.Shape {
	r := el.Number("r")
	if r <= 0 {
		r = defaultCircleRadius
	}
	s := &physics.Shape{
		ID:          id,
		Kind:        physics.Circle,
		Radius:      r,
		Offset:      cp.Vector{X: el.Number("cx"), Y: el.Number("cy")},
		Density:     opts.EffectiveDensity(),
		Restitution: defaultCircleRestitution,
		Friction:    physics.DefaultFriction,
		Hidden:      opts.Hidden,
	}
	applySurface(s, opts)
	return s
}

func applySurface(s *physics.Shape, opts options.Options) {
	if opts.Friction != nil {
		s.Friction = *opts.Friction
	}
	if opts.Restitution != nil {
		s.Restitution = *opts.Restitution
	}
}

func hullArea(verts []cp.Vector) float64 {
	hull := make([]cp.Vector, len(verts))
	copy(hull, verts)
	n := cp.ConvexHull(len(hull), hull, nil, 0)
	if n < 3 {
		return 0
	}
	return math.Abs(cp.AreaForPoly(n, hull, 0))
}
