package physics

import (
	"github.com/jakecoffman/cp"
)

// WorldData is the compiled world plus its id registries. The order slices
// record insertion order so iteration over the maps stays deterministic.
type WorldData struct {
	World     *World
	BodyMap   map[string]*Body
	ShapeMap  map[string]*Shape
	JointMap  map[string]*Joint
	ViewBoxes map[string]ViewBox
	Size      cp.Vector

	BodyOrder    []string
	ShapeOrder   []string
	JointOrder   []string
	ViewBoxOrder []string
}

// NewWorldData returns empty registries around w.
func NewWorldData(w *World) *WorldData {
	return &WorldData{
		World:     w,
		BodyMap:   make(map[string]*Body),
		ShapeMap:  make(map[string]*Shape),
		JointMap:  make(map[string]*Joint),
		ViewBoxes: make(map[string]ViewBox),
	}
}

// HasShape reports whether a shape with id has already been built.
func (d *WorldData) HasShape(id string) bool {
	_, ok := d.ShapeMap[id]
	return ok
}

// AddBody registers b and its shapes. A later body with the same id
// replaces the earlier entry but keeps its original position in BodyOrder.
func (d *WorldData) AddBody(b *Body) {
	if b == nil {
		return
	}
	if _, ok := d.BodyMap[b.ID]; !ok {
		d.BodyOrder = append(d.BodyOrder, b.ID)
	}
	d.BodyMap[b.ID] = b
	for _, s := range b.Shapes {
		d.addShape(s)
	}
}

func (d *WorldData) addShape(s *Shape) {
	if _, ok := d.ShapeMap[s.ID]; !ok {
		d.ShapeOrder = append(d.ShapeOrder, s.ID)
	}
	d.ShapeMap[s.ID] = s
}

// AddJoint registers j under its id.
func (d *WorldData) AddJoint(j *Joint) {
	if j == nil {
		return
	}
	if _, ok := d.JointMap[j.ID]; !ok {
		d.JointOrder = append(d.JointOrder, j.ID)
	}
	d.JointMap[j.ID] = j
}

// RemoveJoint drops the joint with id from the registry and returns it.
func (d *WorldData) RemoveJoint(id string) (*Joint, bool) {
	j, ok := d.JointMap[id]
	if !ok {
		return nil, false
	}
	delete(d.JointMap, id)
	for i, other := range d.JointOrder {
		if other == id {
			d.JointOrder = append(d.JointOrder[:i], d.JointOrder[i+1:]...)
			break
		}
	}
	return j, true
}

// AddViewBox registers a named view box.
func (d *WorldData) AddViewBox(id string, v ViewBox) {
	if _, ok := d.ViewBoxes[id]; !ok {
		d.ViewBoxOrder = append(d.ViewBoxOrder, id)
	}
	d.ViewBoxes[id] = v
}

// Body looks up a compiled body. The ground body is never registered here.
func (d *WorldData) Body(id string) (*Body, bool) {
	b, ok := d.BodyMap[id]
	return b, ok
}

// ResolveBody returns the body named ref, failing with
// UnknownBodyReference attributed to owner.
func (d *WorldData) ResolveBody(owner, ref string) (*Body, error) {
	b, ok := d.BodyMap[ref]
	if !ok {
		return nil, newUnknownBody(owner, ref)
	}
	return b, nil
}

// Bodies returns the bodies in registration order.
func (d *WorldData) Bodies() []*Body {
	out := make([]*Body, 0, len(d.BodyOrder))
	for _, id := range d.BodyOrder {
		out = append(out, d.BodyMap[id])
	}
	return out
}

// Joints returns the joints in registration order.
func (d *WorldData) Joints() []*Joint {
	out := make([]*Joint, 0, len(d.JointOrder))
	for _, id := range d.JointOrder {
		out = append(out, d.JointMap[id])
	}
	return out
}
