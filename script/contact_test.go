package script

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/svgworld/compiler"
	"github.com/milk9111/svgworld/physics"
	"github.com/milk9111/svgworld/runner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	data      *physics.WorldData
	tick      uint64
	forces    map[string][3]any
	joints    []runner.JointRequest
	destroyed []string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{forces: map[string][3]any{}}
}

func (e *fakeEngine) Data() *physics.WorldData { return e.data }
func (e *fakeEngine) Tick() uint64             { return e.tick }

func (e *fakeEngine) AddForce(name, bodyID string, dx, dy float64) {
	e.forces[name] = [3]any{bodyID, dx, dy}
}

func (e *fakeEngine) RemoveForce(name string) bool {
	_, ok := e.forces[name]
	delete(e.forces, name)
	return ok
}

func (e *fakeEngine) EnqueueJoint(req runner.JointRequest) {
	e.joints = append(e.joints, req)
}

func (e *fakeEngine) DestroyJoint(name string) error {
	if name != "known" {
		return &physics.Error{Kind: physics.UnknownJoint, ID: name}
	}
	e.destroyed = append(e.destroyed, name)
	return nil
}

func body(id string) *physics.Body {
	return &physics.Body{ID: id}
}

const countingScript = `
on_start := func(engine, state, a, b, scope) {
	state.starts = is_undefined(state.starts) ? 1 : state.starts + 1
	engine.add_force("lift", a, 0, -500.5)
	engine.create_joint(a, b, a + "-" + b + "-rope")
	engine.enqueue_joint("weld", "w", b, a)
	engine.enqueue_joint("spring", "ignored", a, b)
	state.scope = scope
}

on_end := func(engine, state, a, b, scope) {
	engine.remove_force("lift")
	state.destroyed_known = engine.destroy_joint("known")
	state.destroyed_missing = engine.destroy_joint("missing")
}
`

func TestContactScriptStartAndEnd(t *testing.T) {
	e := newFakeEngine()
	s, err := New("counting", []byte(countingScript), e)
	require.NoError(t, err)

	s.ContactStart(body("a"), body("b"), "level")
	s.ContactStart(body("a"), body("b"), "level")

	require.Equal(t, [3]any{"a", 0.0, -500.5}, e.forces["lift"])
	require.Equal(t, []runner.JointRequest{
		{ID: "a-b-rope", Kind: physics.Distance, Body1: "a", Body2: "b"},
		{ID: "w", Kind: physics.Weld, Body1: "b", Body2: "a"},
		{ID: "a-b-rope", Kind: physics.Distance, Body1: "a", Body2: "b"},
		{ID: "w", Kind: physics.Weld, Body1: "b", Body2: "a"},
	}, e.joints)

	state := s.State()
	require.Equal(t, int64(2), state["starts"])
	require.Equal(t, "level", state["scope"])

	s.ContactEnd(body("a"), body("b"), nil)
	require.Empty(t, e.forces)
	require.Equal(t, []string{"known"}, e.destroyed)
	state = s.State()
	require.Equal(t, true, state["destroyed_known"])
	require.Equal(t, false, state["destroyed_missing"])
}

func TestContactScriptOnlyEnd(t *testing.T) {
	e := newFakeEngine()
	s, err := New("end-only", []byte(`on_end := func(engine, state, a, b, scope) { state.seen = a + ":" + b }`), e)
	require.NoError(t, err)

	s.ContactStart(body("x"), body("y"), nil)
	require.Empty(t, s.State())

	s.ContactEnd(body("x"), body("y"), nil)
	require.Equal(t, "x:y", s.State()["seen"])
}

func TestNewErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"no_handlers", `x := 1`},
		{"syntax", `on_start := func(engine, state, a, b, scope) {`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(c.name, []byte(c.src), newFakeEngine())
			require.Error(t, err)
		})
	}

	t.Run("nil_engine", func(t *testing.T) {
		_, err := New("nil", []byte(countingScript), nil)
		require.Error(t, err)
	})
}

func TestRuntimeErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	src := `on_start := func(engine, state, a, b, scope) { engine.add_force("f", a, "up", 0) }`
	s, err := New("bad-args", []byte(src), newFakeEngine(), WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)

	s.ContactStart(body("a"), body("b"), nil)
	require.Contains(t, buf.String(), `"level":"warn"`)
	require.Contains(t, buf.String(), `"script":"bad-args"`)
	require.Contains(t, buf.String(), `"phase":"start"`)
}

func TestPositionLookup(t *testing.T) {
	data, err := compiler.CompileBytes([]byte(`<svg width="100" height="100">
  <g id="crate" transform="translate(10, 20)"><rect id="box" x="0" y="0" width="4" height="4"/></g>
</svg>`))
	require.NoError(t, err)

	e := newFakeEngine()
	e.data = data
	e.tick = 7
	src := `on_start := func(engine, state, a, b, scope) {
	state.pos = engine.position(a)
	state.missing = is_undefined(engine.position(b))
	state.angle = engine.angle(a)
	state.tick = engine.tick()
}`
	s, err := New("pos", []byte(src), e)
	require.NoError(t, err)

	s.ContactStart(data.BodyMap["crate"], body("ghost"), nil)
	state := s.State()
	pos, ok := state["pos"].([]any)
	require.True(t, ok)
	require.Len(t, pos, 2)
	require.InDelta(t, 10, pos[0], 1e-9)
	require.InDelta(t, 20, pos[1], 1e-9)
	require.Equal(t, true, state["missing"])
	require.Equal(t, 0.0, state["angle"])
	require.Equal(t, int64(7), state["tick"])
}

func TestLoadFileWithRunner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rope.tengo")
	require.NoError(t, os.WriteFile(path, []byte(`
on_start := func(engine, state, a, b, scope) {
	engine.create_joint(a, "b", "a-b-rope")
}
`), 0o644))

	r, err := runner.New(runner.DefaultConfig())
	require.NoError(t, err)
	data, err := compiler.CompileBytes([]byte(`<svg width="400" height="400">
  <g id="a" transform="translate(100, 0)"><rect id="a-box" x="0" y="0" width="20" height="20"/></g>
  <g id="b" transform="translate(200, 0)"><rect id="b-box" x="0" y="0" width="20" height="20"/></g>
  <g id="ground"><rect id="floor" x="0" y="300" width="400" height="20"><desc>"fixed": true</desc></rect></g>
</svg>`))
	require.NoError(t, err)
	require.NoError(t, r.Load(data))

	s, err := LoadFile(path, r)
	require.NoError(t, err)
	r.AddContactSubscriber("a", "ground", s, nil)

	for i := 0; i < 120; i++ {
		require.NoError(t, r.Step())
		if _, ok := data.JointMap["a-b-rope"]; ok {
			break
		}
	}
	require.Contains(t, data.JointMap, "a-b-rope")
	require.Empty(t, r.PendingJoints())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.tengo"), r)
	require.Error(t, err)
}
