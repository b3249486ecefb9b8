package physics

import (
	"github.com/jakecoffman/cp"
)

// ShapeKind is the geometry of a Shape.
type ShapeKind int

const (
	Polygon ShapeKind = iota
	Box
	Circle
)

func (k ShapeKind) String() string {
	switch k {
	case Polygon:
		return "polygon"
	case Box:
		return "box"
	case Circle:
		return "circle"
	default:
		return "unknown"
	}
}

// DefaultFriction applies to every shape unless its options override it.
const DefaultFriction = 0.8

// Shape describes one collision shape in body-local coordinates. CP is set
// once the owning body has been added to a World.
type Shape struct {
	ID   string
	Kind ShapeKind

	Vertices   []cp.Vector
	HalfWidth  float64
	HalfHeight float64
	Offset     cp.Vector
	Radius     float64

	Density     float64
	Restitution float64
	Friction    float64
	Hidden      bool

	Body *Body
	CP   *cp.Shape
}

// Fixed reports whether the shape contributes no mass.
func (s *Shape) Fixed() bool {
	return s == nil || s.Density <= 0
}

// Body is a rigid body compiled from one group or standalone element.
type Body struct {
	ID     string
	World  *World
	Shapes []*Shape
	Hidden bool
	CP     *cp.Body
}

// Static reports whether no shape of the body carries a positive density.
func (b *Body) Static() bool {
	if b == nil {
		return true
	}
	for _, s := range b.Shapes {
		if !s.Fixed() {
			return false
		}
	}
	return true
}

// Position returns the body origin in world space.
func (b *Body) Position() cp.Vector {
	if b == nil || b.CP == nil {
		return cp.Vector{}
	}
	return b.CP.Position()
}

// Angle returns the body orientation in radians.
func (b *Body) Angle() float64 {
	if b == nil || b.CP == nil {
		return 0
	}
	return b.CP.Angle()
}

// Rotation returns the body orientation as a unit vector (cos, sin).
func (b *Body) Rotation() cp.Vector {
	if b == nil || b.CP == nil {
		return cp.Vector{X: 1}
	}
	return b.CP.Rotation()
}

// Center returns the center of gravity in world space.
func (b *Body) Center() cp.Vector {
	if b == nil || b.CP == nil {
		return cp.Vector{}
	}
	return b.CP.LocalToWorld(b.CP.CenterOfGravity())
}

// Mass returns the body mass, 0 for static bodies.
func (b *Body) Mass() float64 {
	if b == nil || b.CP == nil || b.CP.GetType() != cp.BODY_DYNAMIC {
		return 0
	}
	return b.CP.Mass()
}

// Dynamic reports whether the integrator moves the body.
func (b *Body) Dynamic() bool {
	return b != nil && b.CP != nil && b.CP.GetType() == cp.BODY_DYNAMIC
}

// ApplyForce applies a world-space force at the center of gravity.
func (b *Body) ApplyForce(force cp.Vector) {
	if !b.Dynamic() {
		return
	}
	b.CP.ApplyForceAtWorldPoint(force, b.Center())
}

// JointKind is the constraint family of a Joint.
type JointKind int

const (
	Revolute JointKind = iota
	Weld
	Distance
	Mouse
)

func (k JointKind) String() string {
	switch k {
	case Revolute:
		return "revolute"
	case Weld:
		return "weld"
	case Distance:
		return "distance"
	case Mouse:
		return "mouse"
	default:
		return "unknown"
	}
}

// Joint connects two bodies. Anchor is the world-space pivot for revolute
// and weld joints, and the first end for distance joints; Anchor2 is the
// second end of a distance joint.
type Joint struct {
	ID       string
	Kind     JointKind
	Anchor   cp.Vector
	Anchor2  cp.Vector
	Limited  bool
	MaxForce float64

	Body1 *Body
	Body2 *Body

	Constraints []*cp.Constraint

	cursor *cp.Body
}

// SetTarget moves the cursor end of a mouse joint.
func (j *Joint) SetTarget(p cp.Vector) {
	if j == nil || j.cursor == nil {
		return
	}
	j.cursor.SetPosition(p)
}

// Target returns the cursor position of a mouse joint.
func (j *Joint) Target() cp.Vector {
	if j == nil || j.cursor == nil {
		return cp.Vector{}
	}
	return j.cursor.Position()
}

// ViewBox is a named camera rectangle; it never becomes a body.
type ViewBox struct {
	X, Y          float64
	Width, Height float64
}

// BB returns the view box as a cp bounding box.
func (v ViewBox) BB() cp.BB {
	return cp.BB{L: v.X, B: v.Y, R: v.X + v.Width, T: v.Y + v.Height}
}

// Contains reports whether p lies inside the view box.
func (v ViewBox) Contains(p cp.Vector) bool {
	return v.BB().ContainsVect(p)
}

// Intersects reports whether the view boxes overlap.
func (v ViewBox) Intersects(o ViewBox) bool {
	return v.BB().Intersects(o.BB())
}
