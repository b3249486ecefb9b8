// Package scenes ships sample documents and scripts. A file of the same name
// under Dir on disk takes precedence over the embedded copy.
package scenes

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/milk9111/svgworld/compiler"
	"github.com/milk9111/svgworld/physics"
	"github.com/rotisserie/eris"
)

//go:embed *.svg *.tengo
var FS embed.FS

// Dir is the directory searched before the embedded files.
var Dir = "scenes"

// Load returns the named scene file.
func Load(name string) ([]byte, error) {
	clean := cleanPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	data, err := FS.ReadFile(clean)
	if err != nil {
		return nil, eris.Wrapf(err, "scenes: load %s", name)
	}
	return data, nil
}

// ModTime returns the modification time of the on-disk override, if any.
func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(cleanPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Names lists the embedded documents.
func Names() []string {
	matches, err := fs.Glob(FS, "*.svg")
	if err != nil {
		return nil
	}
	sort.Strings(matches)
	return matches
}

// Compile loads and compiles the named document. A name without an
// extension gets ".svg".
func Compile(name string, opts ...compiler.Option) (*physics.WorldData, error) {
	if path.Ext(name) == "" {
		name += ".svg"
	}
	src, err := Load(name)
	if err != nil {
		return nil, err
	}
	data, err := compiler.CompileBytes(src, opts...)
	if err != nil {
		return nil, eris.Wrapf(err, "scenes: compile %s", name)
	}
	return data, nil
}

func cleanPath(name string) string {
	s := filepath.ToSlash(name)
	if after, ok := strings.CutPrefix(s, "scenes/"); ok {
		s = after
	}
	return s
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}

// ScenePrefix selects an embedded document in Open, as in "scene:crate".
const ScenePrefix = "scene:"

// Open compiles arg, which is either a file path or ScenePrefix followed by
// the name of an embedded document.
func Open(arg string, opts ...compiler.Option) (*physics.WorldData, error) {
	if name, ok := strings.CutPrefix(arg, ScenePrefix); ok {
		return Compile(name, opts...)
	}
	return compiler.CompileFile(arg, opts...)
}
