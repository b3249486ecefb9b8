package scenes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/svgworld/physics"
	"github.com/stretchr/testify/require"
)

func useDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
}

func TestNames(t *testing.T) {
	require.Equal(t, []string{"crate.svg", "rope.svg"}, Names())
}

func TestCompileEmbedded(t *testing.T) {
	useDir(t, t.TempDir())

	t.Run("crate", func(t *testing.T) {
		data, err := Compile("crate")
		require.NoError(t, err)
		require.Equal(t, []string{"crate1", "crate2", "ground"}, data.BodyOrder)
		require.True(t, data.BodyMap["crate1"].Dynamic())
		require.True(t, data.BodyMap["ground"].Static())
		require.Len(t, data.BodyMap["ground"].Shapes, 2)
		require.Equal(t, []string{"camera"}, data.ViewBoxOrder)
		require.Empty(t, data.JointMap)
	})

	t.Run("rope", func(t *testing.T) {
		data, err := Compile("scenes/rope.svg")
		require.NoError(t, err)
		j, ok := data.JointMap["bob-anchor-rope"]
		require.True(t, ok)
		require.Equal(t, physics.Distance, j.Kind)
		require.Equal(t, "bob", j.Body1.ID)
		require.Equal(t, "anchor", j.Body2.ID)
		require.Len(t, j.Constraints, 1)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Compile("nope")
		require.Error(t, err)
	})
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)

	_, ok := ModTime("crate.svg")
	require.False(t, ok)

	embedded, err := Load("crate.svg")
	require.NoError(t, err)
	require.Contains(t, string(embedded), "crate2")

	override := `<svg width="10" height="10"><rect id="only" x="0" y="0" width="2" height="2"/></svg>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crate.svg"), []byte(override), 0o644))

	got, err := Load("crate.svg")
	require.NoError(t, err)
	require.Equal(t, override, string(got))
	_, ok = ModTime("crate.svg")
	require.True(t, ok)

	data, err := Compile("crate")
	require.NoError(t, err)
	require.Equal(t, []string{"only"}, data.BodyOrder)
}

func TestEmbeddedScript(t *testing.T) {
	useDir(t, t.TempDir())
	src, err := Load("crate.tengo")
	require.NoError(t, err)
	require.Contains(t, string(src), "on_start")
}

func TestOpen(t *testing.T) {
	useDir(t, t.TempDir())

	data, err := Open("scene:rope")
	require.NoError(t, err)
	require.Contains(t, data.JointMap, "bob-anchor-rope")

	path := filepath.Join(t.TempDir(), "doc.svg")
	require.NoError(t, os.WriteFile(path, []byte(`<svg width="10" height="10"><circle id="c" r="2"/></svg>`), 0o644))
	data, err = Open(path)
	require.NoError(t, err)
	require.Equal(t, []string{"c"}, data.BodyOrder)

	_, err = Open(filepath.Join(t.TempDir(), "missing.svg"))
	require.Error(t, err)
}
