package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const collisionTypeShape cp.CollisionType = 1

const (
	// DefaultGravity points down the document's y axis.
	DefaultGravity = 300.0
	// DefaultIterations is the solver iteration count per step.
	DefaultIterations uint = 10
	// GroundID is the name joint ids use for the implicit ground body.
	GroundID = "ground"
)

// ContactListener is told when two shapes start and stop touching.
// Calls happen inside Step while the space is locked: listeners must not
// add or remove bodies, shapes or joints.
type ContactListener interface {
	BeginContact(a, b *Body)
	EndContact(a, b *Body)
}

// World owns the Chipmunk space and maps its shapes back to compiled bodies.
type World struct {
	space    *cp.Space
	ground   *Body
	bounds   cp.BB
	listener ContactListener
	log      zerolog.Logger
	stepping bool

	shapeToOwner map[*cp.Shape]*Shape
}

// WorldOption configures a World.
type WorldOption func(*World)

// WithGravity overrides the default gravity vector.
func WithGravity(g cp.Vector) WorldOption {
	return func(w *World) {
		w.space.SetGravity(g)
	}
}

// WithIterations overrides the solver iteration count.
func WithIterations(n uint) WorldOption {
	return func(w *World) {
		if n > 0 {
			w.space.Iterations = n
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l zerolog.Logger) WorldOption {
	return func(w *World) {
		w.log = l.With().Str("component", "physics").Logger()
	}
}

// NewWorld creates an empty world with gravity (0, 300).
func NewWorld(opts ...WorldOption) *World {
	space := cp.NewSpace()
	space.Iterations = DefaultIterations
	space.SetGravity(cp.Vector{X: 0, Y: DefaultGravity})

	w := &World{
		space:        space,
		log:          log.With().Str("component", "physics").Logger(),
		shapeToOwner: make(map[*cp.Shape]*Shape),
	}
	w.ground = &Body{ID: GroundID, World: w, CP: space.StaticBody}
	space.StaticBody.UserData = w.ground

	for _, opt := range opts {
		opt(w)
	}

	w.setupHandlers()
	return w
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// Ground returns the world's implicit static body.
func (w *World) Ground() *Body {
	if w == nil {
		return nil
	}
	return w.ground
}

// Gravity returns the configured gravity.
func (w *World) Gravity() cp.Vector {
	return w.space.Gravity()
}

// SetGravity replaces the gravity vector.
func (w *World) SetGravity(g cp.Vector) {
	w.space.SetGravity(g)
}

// Iterations returns the solver iteration count.
func (w *World) Iterations() uint {
	return w.space.Iterations
}

// SetIterations sets the solver iteration count; zero is ignored.
func (w *World) SetIterations(n uint) {
	if n > 0 {
		w.space.Iterations = n
	}
}

// SetExtents records the document size; the world bounds span three sizes
// beyond each edge.
func (w *World) SetExtents(size cp.Vector) {
	w.bounds = cp.BB{
		L: -3 * size.X,
		B: -3 * size.Y,
		R: 4 * size.X,
		T: 4 * size.Y,
	}
}

// Bounds returns the world bounds set by SetExtents.
func (w *World) Bounds() cp.BB {
	return w.bounds
}

// InBounds reports whether p lies within the world bounds.
func (w *World) InBounds(p cp.Vector) bool {
	return w.bounds.ContainsVect(p)
}

// SetContactListener installs the receiver of contact notifications.
func (w *World) SetContactListener(l ContactListener) {
	if w == nil {
		return
	}
	w.listener = l
}

// AddBody creates a body at pos carrying the given shapes. The body is
// static unless at least one shape has a positive density.
func (w *World) AddBody(id string, pos cp.Vector, shapes []*Shape) *Body {
	b := &Body{ID: id, World: w, Shapes: shapes}

	if b.Static() {
		b.CP = cp.NewStaticBody()
	} else {
		b.CP = cp.NewBody(0, 0)
	}
	b.CP.SetPosition(pos)
	b.CP.UserData = b
	w.space.AddBody(b.CP)

	for _, s := range shapes {
		s.Body = b
		s.CP = w.newShape(b.CP, s)
		w.space.AddShape(s.CP)
		if !s.Fixed() {
			s.CP.SetDensity(s.Density)
		}
		w.shapeToOwner[s.CP] = s
	}

	return b
}

func (w *World) newShape(body *cp.Body, s *Shape) *cp.Shape {
	var shape *cp.Shape
	switch s.Kind {
	case Box:
		shape = cp.NewBox2(body, cp.BB{
			L: s.Offset.X - s.HalfWidth,
			B: s.Offset.Y - s.HalfHeight,
			R: s.Offset.X + s.HalfWidth,
			T: s.Offset.Y + s.HalfHeight,
		}, 0)
	case Circle:
		shape = cp.NewCircle(body, s.Radius, s.Offset)
	default:
		shape = cp.NewPolyShape(body, len(s.Vertices), s.Vertices, cp.NewTransformIdentity(), 0)
	}
	shape.SetFriction(s.Friction)
	shape.SetElasticity(s.Restitution)
	shape.SetCollisionType(collisionTypeShape)
	shape.UserData = s
	return shape
}

// ShapeOwner returns the compiled shape behind a cp shape.
func (w *World) ShapeOwner(s *cp.Shape) *Shape {
	if w == nil || s == nil {
		return nil
	}
	return w.shapeToOwner[s]
}

// AddJoint realizes a revolute, weld or distance joint in the space.
// Joints between two bodies that never move are recorded without
// constraints since the solver cannot resolve them.
func (w *World) AddJoint(j *Joint) error {
	if j == nil {
		return eris.New("physics: nil joint")
	}
	if j.Body1 == nil || j.Body2 == nil {
		return eris.Errorf("physics: joint %q is missing a body", j.ID)
	}

	j.Limited = j.Kind == Weld
	if !j.Body1.Dynamic() && !j.Body2.Dynamic() {
		w.log.Debug().Str("joint", j.ID).Msg("joint between static bodies has no constraint")
		return nil
	}

	a, b := j.Body1.CP, j.Body2.CP
	switch j.Kind {
	case Revolute:
		j.Constraints = []*cp.Constraint{cp.NewPivotJoint(a, b, j.Anchor)}
	case Weld:
		j.Constraints = []*cp.Constraint{
			cp.NewPivotJoint(a, b, j.Anchor),
			cp.NewRotaryLimitJoint(a, b, 0, 0),
		}
	case Distance:
		j.Constraints = []*cp.Constraint{
			cp.NewPinJoint(a, b, a.WorldToLocal(j.Anchor), b.WorldToLocal(j.Anchor2)),
		}
	default:
		return eris.Errorf("physics: joint %q: kind %s cannot be added directly", j.ID, j.Kind)
	}

	for _, c := range j.Constraints {
		if j.MaxForce > 0 {
			c.SetMaxForce(j.MaxForce)
		}
		w.space.AddConstraint(c)
	}
	return nil
}

// AddMouseJoint pulls the point of body under p toward a movable target
// with at most maxForce.
func (w *World) AddMouseJoint(id string, body *Body, p cp.Vector, maxForce float64) (*Joint, error) {
	if !body.Dynamic() {
		return nil, eris.Errorf("physics: mouse joint %q needs a dynamic body", id)
	}

	cursor := cp.NewKinematicBody()
	cursor.SetPosition(p)

	c := cp.NewPivotJoint2(cursor, body.CP, cp.Vector{}, body.CP.WorldToLocal(p))
	c.SetMaxForce(maxForce)
	c.SetErrorBias(math.Pow(1.0-0.15, 60.0))
	w.space.AddConstraint(c)

	return &Joint{
		ID:          id,
		Kind:        Mouse,
		Anchor:      p,
		MaxForce:    maxForce,
		Body1:       w.ground,
		Body2:       body,
		Constraints: []*cp.Constraint{c},
		cursor:      cursor,
	}, nil
}

// RemoveJoint removes the joint's constraints from the space. During a
// step the removal is postponed until the space unlocks.
func (w *World) RemoveJoint(j *Joint) {
	if w == nil || j == nil {
		return
	}
	constraints := j.Constraints
	j.Constraints = nil
	if w.stepping {
		w.space.AddPostStepCallback(func(space *cp.Space, _, _ interface{}) {
			removeConstraints(space, constraints)
		}, nil, nil)
		return
	}
	removeConstraints(w.space, constraints)
}

func removeConstraints(space *cp.Space, constraints []*cp.Constraint) {
	for _, c := range constraints {
		if space.ContainsConstraint(c) {
			space.RemoveConstraint(c)
		}
	}
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil {
		return
	}
	w.stepping = true
	defer func() { w.stepping = false }()
	w.space.Step(dt)
}

// Stepping reports whether a step is in progress, which is the case while
// contact listeners run.
func (w *World) Stepping() bool {
	return w != nil && w.stepping
}

// BodyAt returns the body of the shape nearest p within radius, or nil.
func (w *World) BodyAt(p cp.Vector, radius float64) *Body {
	if w == nil {
		return nil
	}
	info := w.space.PointQueryNearest(p, radius, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return nil
	}
	owner := w.shapeToOwner[info.Shape]
	if owner == nil {
		return nil
	}
	return owner.Body
}

func (w *World) setupHandlers() {
	handler := w.space.NewCollisionHandler(collisionTypeShape, collisionTypeShape)
	handler.UserData = w
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil || world.listener == nil {
			return true
		}
		a, b := world.arbiterBodies(arb)
		if a == nil || b == nil {
			return true
		}
		world.listener.BeginContact(a, b)
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		world, ok := userData.(*World)
		if !ok || world == nil || world.listener == nil {
			return
		}
		a, b := world.arbiterBodies(arb)
		if a == nil || b == nil {
			return
		}
		world.listener.EndContact(a, b)
	}
}

func (w *World) arbiterBodies(arb *cp.Arbiter) (*Body, *Body) {
	shapeA, shapeB := arb.Shapes()
	ownerA := w.shapeToOwner[shapeA]
	ownerB := w.shapeToOwner[shapeB]
	if ownerA == nil || ownerB == nil {
		return nil, nil
	}
	return ownerA.Body, ownerB.Body
}
