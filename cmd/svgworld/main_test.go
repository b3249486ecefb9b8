package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/milk9111/svgworld/compiler"
	"github.com/stretchr/testify/require"
)

func TestParseForce(t *testing.T) {
	cases := []struct {
		in      string
		want    forceFlag
		wantErr bool
	}{
		{"push:crate1:10:-5", forceFlag{name: "push", body: "crate1", dx: 10, dy: -5}, false},
		{"push:crate1:10", forceFlag{}, true},
		{"push:crate1:x:0", forceFlag{}, true},
		{"push:crate1:0:y", forceFlag{}, true},
		{":crate1:0:0", forceFlag{}, true},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := parseForce(c.in)
			if c.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestParsePair(t *testing.T) {
	a, b, err := parsePair("crate1:*")
	require.NoError(t, err)
	require.Equal(t, "crate1", a)
	require.Equal(t, "*", b)

	for _, bad := range []string{"crate1", ":b", "a:"} {
		_, _, err := parsePair(bad)
		require.Error(t, err, bad)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestCompileCmd(t *testing.T) {
	t.Run("summary", func(t *testing.T) {
		out, err := execute(t, "compile", "scene:rope")
		require.NoError(t, err)
		require.Contains(t, out, "size 640x480")
		require.Contains(t, out, "body bob dynamic")
		require.Contains(t, out, "joint bob-anchor-rope distance bob-anchor")
		require.Contains(t, out, "viewbox camera 640x480")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "compile", "scene:crate", "--json")
		require.NoError(t, err)
		var snap compiler.Snapshot
		require.NoError(t, json.Unmarshal([]byte(out), &snap))
		require.Len(t, snap.Bodies, 3)
		require.Equal(t, "crate1", snap.Bodies[0].ID)
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := execute(t, "compile", filepath.Join(t.TempDir(), "none.svg"))
		require.Error(t, err)
	})
}

func TestRunCmd(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "weld.tengo")
	require.NoError(t, os.WriteFile(scriptPath, []byte(`
on_start := func(engine, state, a, b, scope) {
	engine.enqueue_joint("weld", a + "-" + b + "-weld", a, b)
}
`), 0o644))

	out, err := execute(t, "run", "scene:crate",
		"--steps", "240",
		"--contact", "crate2:crate1",
		"--script", scriptPath,
		"--json",
	)
	require.NoError(t, err)

	var snap compiler.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	ids := make([]string, 0, len(snap.Joints))
	for _, j := range snap.Joints {
		ids = append(ids, j.ID)
	}
	require.Contains(t, ids, "crate2-crate1-weld")

	_, err = execute(t, "run", "scene:crate", "--steps", "1", "--force", "push:ghost:1:0")
	require.Error(t, err)

	_, err = execute(t, "run", "scene:crate", "--force", "bad")
	require.Error(t, err)
}
