package compiler

import (
	"github.com/goccy/go-json"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/svgworld/physics"
	"github.com/rotisserie/eris"
)

// Vec is a JSON-friendly vector.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func vec(v cp.Vector) Vec {
	return Vec{X: v.X, Y: v.Y}
}

// ShapeSnapshot describes one compiled shape.
type ShapeSnapshot struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Vertices    []Vec   `json:"vertices,omitempty"`
	HalfWidth   float64 `json:"halfWidth,omitempty"`
	HalfHeight  float64 `json:"halfHeight,omitempty"`
	Offset      Vec     `json:"offset"`
	Radius      float64 `json:"radius,omitempty"`
	Density     float64 `json:"density"`
	Friction    float64 `json:"friction"`
	Restitution float64 `json:"restitution"`
	Hidden      bool    `json:"hidden,omitempty"`
}

// BodySnapshot describes one body and its current pose.
type BodySnapshot struct {
	ID       string          `json:"id"`
	Static   bool            `json:"static"`
	Hidden   bool            `json:"hidden,omitempty"`
	Position Vec             `json:"position"`
	Angle    float64         `json:"angle"`
	Shapes   []ShapeSnapshot `json:"shapes"`
}

// JointSnapshot describes one joint.
type JointSnapshot struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Body1   string `json:"body1"`
	Body2   string `json:"body2"`
	Anchor  Vec    `json:"anchor"`
	Anchor2 *Vec   `json:"anchor2,omitempty"`
	Limited bool   `json:"limited,omitempty"`
}

// ViewBoxSnapshot describes one view box.
type ViewBoxSnapshot struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Snapshot is a serializable view of a WorldData in registration order.
type Snapshot struct {
	Size      Vec               `json:"size"`
	Bodies    []BodySnapshot    `json:"bodies"`
	Joints    []JointSnapshot   `json:"joints"`
	ViewBoxes []ViewBoxSnapshot `json:"viewBoxes"`
}

// TakeSnapshot captures the registries of data.
func TakeSnapshot(data *physics.WorldData) Snapshot {
	snap := Snapshot{
		Size:      vec(data.Size),
		Bodies:    make([]BodySnapshot, 0, len(data.BodyOrder)),
		Joints:    make([]JointSnapshot, 0, len(data.JointOrder)),
		ViewBoxes: make([]ViewBoxSnapshot, 0, len(data.ViewBoxOrder)),
	}

	for _, b := range data.Bodies() {
		bs := BodySnapshot{
			ID:       b.ID,
			Static:   b.Static(),
			Hidden:   b.Hidden,
			Position: vec(b.Position()),
			Angle:    b.Angle(),
			Shapes:   make([]ShapeSnapshot, 0, len(b.Shapes)),
		}
		for _, s := range b.Shapes {
			ss := ShapeSnapshot{
				ID:          s.ID,
				Kind:        s.Kind.String(),
				HalfWidth:   s.HalfWidth,
				HalfHeight:  s.HalfHeight,
				Offset:      vec(s.Offset),
				Radius:      s.Radius,
				Density:     s.Density,
				Friction:    s.Friction,
				Restitution: s.Restitution,
				Hidden:      s.Hidden,
			}
			for _, v := range s.Vertices {
				ss.Vertices = append(ss.Vertices, vec(v))
			}
			bs.Shapes = append(bs.Shapes, ss)
		}
		snap.Bodies = append(snap.Bodies, bs)
	}

	for _, j := range data.Joints() {
		js := JointSnapshot{
			ID:      j.ID,
			Kind:    j.Kind.String(),
			Anchor:  vec(j.Anchor),
			Limited: j.Limited,
		}
		if j.Body1 != nil {
			js.Body1 = j.Body1.ID
		}
		if j.Body2 != nil {
			js.Body2 = j.Body2.ID
		}
		if j.Kind == physics.Distance {
			a2 := vec(j.Anchor2)
			js.Anchor2 = &a2
		}
		snap.Joints = append(snap.Joints, js)
	}

	for _, id := range data.ViewBoxOrder {
		v := data.ViewBoxes[id]
		snap.ViewBoxes = append(snap.ViewBoxes, ViewBoxSnapshot{ID: id, X: v.X, Y: v.Y, Width: v.Width, Height: v.Height})
	}

	return snap
}

// MarshalSnapshot encodes the snapshot of data as indented JSON.
func MarshalSnapshot(data *physics.WorldData) ([]byte, error) {
	out, err := json.MarshalIndent(TakeSnapshot(data), "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "compiler: marshal snapshot")
	}
	return out, nil
}
