package physics

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	begins [][2]string
	ends   [][2]string
}

func (l *recordingListener) BeginContact(a, b *Body) {
	l.begins = append(l.begins, [2]string{a.ID, b.ID})
}

func (l *recordingListener) EndContact(a, b *Body) {
	l.ends = append(l.ends, [2]string{a.ID, b.ID})
}

func box(id string, offset cp.Vector, hw, hh, density float64) *Shape {
	return &Shape{
		ID:         id,
		Kind:       Box,
		Offset:     offset,
		HalfWidth:  hw,
		HalfHeight: hh,
		Density:    density,
		Friction:   DefaultFriction,
	}
}

func TestAddBodyType(t *testing.T) {
	cases := []struct {
		name    string
		shapes  []*Shape
		dynamic bool
	}{
		{"shapeless_is_static", nil, false},
		{"fixed_shape_is_static", []*Shape{box("a", cp.Vector{}, 1, 1, 0)}, false},
		{"dense_shape_is_dynamic", []*Shape{box("a", cp.Vector{}, 1, 1, 1)}, true},
		{"mixed_is_dynamic", []*Shape{box("a", cp.Vector{}, 1, 1, 0), box("b", cp.Vector{X: 3}, 1, 1, 2)}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			b := w.AddBody("body", cp.Vector{X: 10, Y: 20}, c.shapes)
			require.Equal(t, c.dynamic, b.Dynamic())
			require.Equal(t, !c.dynamic, b.Static())
			require.InDelta(t, 10, b.Position().X, 1e-9)
			require.InDelta(t, 20, b.Position().Y, 1e-9)
			for _, s := range c.shapes {
				require.Same(t, b, s.Body)
				require.NotNil(t, s.CP)
				require.Same(t, s, w.ShapeOwner(s.CP))
			}
			if c.dynamic {
				require.Greater(t, b.Mass(), 0.0)
			} else {
				require.Zero(t, b.Mass())
			}
		})
	}
}

func TestWorldDefaults(t *testing.T) {
	w := NewWorld()
	require.Equal(t, cp.Vector{X: 0, Y: 300}, w.Gravity())
	require.Equal(t, DefaultIterations, w.Iterations())
	require.Equal(t, GroundID, w.Ground().ID)

	w = NewWorld(WithGravity(cp.Vector{Y: 10}), WithIterations(3))
	require.Equal(t, cp.Vector{Y: 10}, w.Gravity())
	require.Equal(t, uint(3), w.Iterations())
}

func TestBounds(t *testing.T) {
	w := NewWorld()
	w.SetExtents(cp.Vector{X: 100, Y: 50})
	require.Equal(t, cp.BB{L: -300, B: -150, R: 400, T: 200}, w.Bounds())
	require.True(t, w.InBounds(cp.Vector{X: 399, Y: 0}))
	require.False(t, w.InBounds(cp.Vector{X: 0, Y: 201}))
}

func TestContactListener(t *testing.T) {
	w := NewWorld()
	l := &recordingListener{}
	w.SetContactListener(l)

	w.AddBody("floor", cp.Vector{}, []*Shape{box("floor", cp.Vector{X: 0, Y: 100}, 100, 10, 0)})
	crate := w.AddBody("crate", cp.Vector{}, []*Shape{box("crate", cp.Vector{}, 5, 5, 1)})

	for i := 0; i < 120; i++ {
		w.Step(2.0 / 60.0)
	}

	require.NotEmpty(t, l.begins)
	pair := l.begins[0]
	require.ElementsMatch(t, []string{"floor", "crate"}, pair[:])
	require.Greater(t, crate.Position().Y, 50.0)
	require.Less(t, crate.Position().Y, 90.0)
}

func TestBodyAt(t *testing.T) {
	w := NewWorld()
	b := w.AddBody("crate", cp.Vector{X: 50, Y: 50}, []*Shape{box("crate", cp.Vector{}, 5, 5, 1)})

	require.Same(t, b, w.BodyAt(cp.Vector{X: 52, Y: 48}, 0.1))
	require.Nil(t, w.BodyAt(cp.Vector{X: 70, Y: 70}, 0.1))
}

func TestAddJoint(t *testing.T) {
	cases := []struct {
		name        string
		kind        JointKind
		dynamic     bool
		constraints int
		limited     bool
		wantErr     bool
	}{
		{"revolute", Revolute, true, 1, false, false},
		{"weld", Weld, true, 2, true, false},
		{"distance", Distance, true, 1, false, false},
		{"static_pair_unconstrained", Revolute, false, 0, false, false},
		{"static_weld_still_limited", Weld, false, 0, true, false},
		{"mouse_rejected", Mouse, true, 0, false, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			density := 0.0
			if c.dynamic {
				density = 1
			}
			a := w.AddBody("a", cp.Vector{}, []*Shape{box("a", cp.Vector{}, 5, 5, density)})
			j := &Joint{ID: "a-joint", Kind: c.kind, Anchor: cp.Vector{X: 1}, Anchor2: cp.Vector{X: 30}, Body1: a, Body2: w.Ground()}

			err := w.AddJoint(j)
			if c.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.limited, j.Limited)
			require.Len(t, j.Constraints, c.constraints)
			for _, con := range j.Constraints {
				require.True(t, w.Space().ContainsConstraint(con))
			}

			w.Step(1.0 / 30.0)
			w.RemoveJoint(j)
			require.Empty(t, j.Constraints)
		})
	}
}

func TestMouseJoint(t *testing.T) {
	w := NewWorld(WithGravity(cp.Vector{}))
	floor := w.AddBody("floor", cp.Vector{}, []*Shape{box("floor", cp.Vector{}, 5, 5, 0)})
	_, err := w.AddMouseJoint("drag", floor, cp.Vector{}, 100)
	require.Error(t, err)

	crate := w.AddBody("crate", cp.Vector{X: 100}, []*Shape{box("crate", cp.Vector{}, 5, 5, 1)})
	j, err := w.AddMouseJoint("drag", crate, cp.Vector{X: 100}, 300*crate.Mass())
	require.NoError(t, err)
	require.Equal(t, Mouse, j.Kind)

	j.SetTarget(cp.Vector{X: 150})
	require.Equal(t, cp.Vector{X: 150}, j.Target())
	for i := 0; i < 60; i++ {
		w.Step(1.0 / 30.0)
	}
	require.Greater(t, crate.Position().X, 100.0)

	w.RemoveJoint(j)
	require.Empty(t, j.Constraints)
}

func TestWorldDataRegistry(t *testing.T) {
	w := NewWorld()
	d := NewWorldData(w)
	a := w.AddBody("a", cp.Vector{}, []*Shape{box("a1", cp.Vector{}, 1, 1, 1), box("a2", cp.Vector{}, 1, 1, 1)})
	b := w.AddBody("b", cp.Vector{}, nil)
	d.AddBody(a)
	d.AddBody(b)

	require.Equal(t, []string{"a", "b"}, d.BodyOrder)
	require.Equal(t, []string{"a1", "a2"}, d.ShapeOrder)
	require.True(t, d.HasShape("a2"))

	_, err := d.ResolveBody("a-c-joint", "c")
	require.True(t, IsKind(err, UnknownBodyReference))

	d.AddJoint(&Joint{ID: "j1"})
	d.AddJoint(&Joint{ID: "j2"})
	d.AddJoint(&Joint{ID: "j3"})
	_, ok := d.RemoveJoint("j2")
	require.True(t, ok)
	_, ok = d.RemoveJoint("j2")
	require.False(t, ok)
	require.Equal(t, []string{"j1", "j3"}, d.JointOrder)
	require.Len(t, d.Joints(), 2)
}

func TestIsKind(t *testing.T) {
	err := eris.Wrapf(&Error{Kind: UnknownJoint, ID: "x"}, "runner: destroy %s", "x")
	require.True(t, IsKind(err, UnknownJoint))
	require.False(t, IsKind(err, UnknownForceTarget))
	require.False(t, IsKind(eris.New("plain"), UnknownJoint))
	require.Contains(t, (&Error{Kind: InvalidJointIdArity, ID: "a-b-c-d", Actual: 4}).Error(), "4 segments")
}

func TestViewBox(t *testing.T) {
	v := ViewBox{X: 0, Y: 0, Width: 10, Height: 5}
	require.True(t, v.Contains(cp.Vector{X: 5, Y: 2}))
	require.False(t, v.Contains(cp.Vector{X: 11, Y: 2}))
	require.True(t, v.Intersects(ViewBox{X: 9, Y: 4, Width: 3, Height: 3}))
	require.False(t, v.Intersects(ViewBox{X: 20, Y: 20, Width: 1, Height: 1}))
}
