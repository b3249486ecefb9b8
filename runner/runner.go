// Package runner steps a compiled world at a fixed rate. It applies
// continuous forces, routes contact events to subscribers and creates
// requested joints between integrator steps, when the space is unlocked.
package runner

import (
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/svgworld/physics"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DragJointID names the mouse joint created by StartDrag.
const DragJointID = "drag-mouse"

// Force is a continuous force applied to a body every step.
type Force struct {
	Body            string
	Vector          cp.Vector
	RotatesWithBody bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) {
		r.log = l.With().Str("component", "runner").Logger()
	}
}

// Runner owns the simulation loop for one loaded world at a time.
type Runner struct {
	cfg      Config
	log      zerolog.Logger
	data     *physics.WorldData
	contacts *ContactRegistry
	joints   JointQueue
	forces   map[string]Force
	drag     *physics.Joint
	tick     uint64
}

// New creates a runner. It fails if cfg does not validate.
func New(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrap(err, "runner: invalid config")
	}
	r := &Runner{
		cfg:    cfg,
		log:    log.With().Str("component", "runner").Logger(),
		forces: make(map[string]Force),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.contacts = NewContactRegistry(r.log)
	return r, nil
}

// Config returns the runner configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

// Load makes data the running world. Subscriptions and forces carry over
// and are resolved against the new bodies; pending joint requests and any
// drag are dropped.
func (r *Runner) Load(data *physics.WorldData) error {
	if data == nil || data.World == nil {
		return eris.New("runner: nil world")
	}
	if r.data != nil {
		r.data.World.SetContactListener(nil)
	}
	r.drag = nil
	r.joints.Clear()

	data.World.SetGravity(r.cfg.Gravity())
	data.World.SetIterations(r.cfg.Iterations)
	data.World.SetContactListener(r.contacts)
	r.data = data
	r.contacts.Resolve(data)

	r.log.Debug().
		Int("bodies", len(data.BodyMap)).
		Int("joints", len(data.JointMap)).
		Int("subscriptions", r.contacts.Len()).
		Msg("world loaded")
	return nil
}

// Data returns the loaded world, or nil.
func (r *Runner) Data() *physics.WorldData {
	return r.data
}

// Tick returns the number of completed steps.
func (r *Runner) Tick() uint64 {
	return r.tick
}

// Step applies forces, advances the space by one timestep and flushes
// deferred joints. A flush error is returned after the step itself has
// completed and been counted by Tick.
func (r *Runner) Step() error {
	if r.data == nil {
		return eris.New("runner: no world loaded")
	}
	if err := r.applyForces(); err != nil {
		return err
	}

	r.data.World.Step(r.cfg.Timestep())
	r.tick++

	if err := r.joints.Flush(r.data); err != nil {
		return eris.Wrap(err, "runner: flush joints")
	}
	return nil
}

func (r *Runner) applyForces() error {
	names := make([]string, 0, len(r.forces))
	for name := range r.forces {
		names = append(names, name)
	}
	slices.Sort(names)

	// Every target resolves before any force reaches a body.
	bodies := make([]*physics.Body, len(names))
	for i, name := range names {
		f := r.forces[name]
		body, ok := r.data.Body(f.Body)
		if !ok {
			return &physics.Error{Kind: physics.UnknownForceTarget, ID: name, Ref: f.Body}
		}
		bodies[i] = body
	}

	for i, name := range names {
		f := r.forces[name]
		v := f.Vector
		if f.RotatesWithBody {
			v = bodies[i].Rotation().Rotate(v)
		}
		bodies[i].ApplyForce(v)
	}
	return nil
}

// AddForce sets the named force on body. The vector turns with the body.
func (r *Runner) AddForce(name, bodyID string, dx, dy float64) {
	r.AddForceVector(name, bodyID, cp.Vector{X: dx, Y: dy}, true)
}

// AddForceVector sets the named force, replacing any force of that name.
func (r *Runner) AddForceVector(name, bodyID string, v cp.Vector, rotates bool) {
	r.forces[name] = Force{Body: bodyID, Vector: v, RotatesWithBody: rotates}
}

// RemoveForce deletes the named force. It reports whether it existed.
func (r *Runner) RemoveForce(name string) bool {
	if _, ok := r.forces[name]; !ok {
		return false
	}
	delete(r.forces, name)
	return true
}

// Forces returns a copy of the active forces.
func (r *Runner) Forces() map[string]Force {
	out := make(map[string]Force, len(r.forces))
	for k, v := range r.forces {
		out[k] = v
	}
	return out
}

// AddContactSubscriber registers handler for contacts between bodies a
// and b; b may be Wildcard.
func (r *Runner) AddContactSubscriber(a, b string, handler ContactHandler, scope any) {
	r.contacts.Add(&Subscription{A: a, B: b, Handler: handler, Scope: scope})
}

// BodyAt returns the body of the shape nearest p within the query radius.
func (r *Runner) BodyAt(p cp.Vector) *physics.Body {
	if r.data == nil {
		return nil
	}
	return r.data.World.BodyAt(p, r.cfg.QueryRadius)
}

// StartDrag attaches a mouse joint to the dynamic body under p. Its force
// is bounded by the body mass times the drag force scale.
func (r *Runner) StartDrag(p cp.Vector) bool {
	if r.data == nil || r.data.World.Stepping() {
		return false
	}
	r.EndDrag()

	body := r.BodyAt(p)
	if !body.Dynamic() {
		return false
	}
	j, err := r.data.World.AddMouseJoint(DragJointID, body, p, r.cfg.DragForceScale*body.Mass())
	if err != nil {
		r.log.Debug().Err(err).Str("body", body.ID).Msg("drag refused")
		return false
	}
	r.drag = j
	return true
}

// DragTo moves the drag target.
func (r *Runner) DragTo(p cp.Vector) {
	r.drag.SetTarget(p)
}

// Dragging returns the active drag joint, or nil.
func (r *Runner) Dragging() *physics.Joint {
	return r.drag
}

// EndDrag releases the active drag joint, if any.
func (r *Runner) EndDrag() {
	if r.drag == nil {
		return
	}
	r.data.World.RemoveJoint(r.drag)
	r.drag = nil
}

// CreateDistanceJoint requests a distance joint between the centers of two
// bodies. It is created after the next step.
func (r *Runner) CreateDistanceJoint(body1, body2, id string) {
	r.EnqueueJoint(JointRequest{ID: id, Kind: physics.Distance, Body1: body1, Body2: body2})
}

// EnqueueJoint defers req until the next flush.
func (r *Runner) EnqueueJoint(req JointRequest) {
	r.joints.Enqueue(req)
}

// PendingJoints returns the requests waiting for the next flush.
func (r *Runner) PendingJoints() []JointRequest {
	return r.joints.Pending()
}

// FlushJoints realizes pending joint requests now. It must not be called
// from a contact handler.
func (r *Runner) FlushJoints() error {
	if r.data == nil {
		return eris.New("runner: no world loaded")
	}
	if r.data.World.Stepping() {
		return eris.New("runner: cannot flush joints during a step")
	}
	return r.joints.Flush(r.data)
}

// DestroyJoint removes the named joint from the world and the joint table.
func (r *Runner) DestroyJoint(name string) error {
	if r.data == nil {
		return eris.New("runner: no world loaded")
	}
	j, ok := r.data.RemoveJoint(name)
	if !ok {
		return &physics.Error{Kind: physics.UnknownJoint, ID: name}
	}
	r.data.World.RemoveJoint(j)
	return nil
}
