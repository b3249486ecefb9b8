// Package compiler turns an SVG document into a populated physics world.
//
// Groups become bodies, their paths, rects and circles become shapes, and
// paths whose ids end in -joint, -rope or -weld become joints between the
// bodies their ids name. Per-element options live in the element's <desc>.
package compiler

import (
	"fmt"
	"math"
	"os"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/svgworld/options"
	"github.com/milk9111/svgworld/physics"
	"github.com/milk9111/svgworld/svg"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Option configures Compile.
type Option func(*config)

type config struct {
	log       zerolog.Logger
	worldOpts []physics.WorldOption
}

// WithLogger sets the logger used for option warnings and pass tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.log = l.With().Str("component", "compiler").Logger()
		c.worldOpts = append(c.worldOpts, physics.WithLogger(l))
	}
}

// WithGravity overrides the world gravity.
func WithGravity(g cp.Vector) Option {
	return func(c *config) {
		c.worldOpts = append(c.worldOpts, physics.WithGravity(g))
	}
}

// WithIterations overrides the solver iteration count.
func WithIterations(n uint) Option {
	return func(c *config) {
		c.worldOpts = append(c.worldOpts, physics.WithIterations(n))
	}
}

type compiler struct {
	log  zerolog.Logger
	doc  *svg.Document
	data *physics.WorldData
	ids  map[*svg.Element]string
}

// Compile builds a world from doc. Passes run in a fixed order: group
// bodies, standalone paths, rects and view boxes, standalone circles,
// revolute joints, ropes, welds. The first failing pass aborts compilation.
func Compile(doc *svg.Document, opts ...Option) (*physics.WorldData, error) {
	if doc == nil || doc.Root == nil {
		return nil, &physics.Error{Kind: physics.InvalidDocument, Detail: "no document"}
	}

	cfg := config{log: log.With().Str("component", "compiler").Logger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	world := physics.NewWorld(cfg.worldOpts...)
	size := cp.Vector{X: math.Trunc(doc.Width()), Y: math.Trunc(doc.Height())}
	world.SetExtents(size)

	data := physics.NewWorldData(world)
	data.Size = size

	c := &compiler{
		log:  cfg.log,
		doc:  doc,
		data: data,
		ids:  make(map[*svg.Element]string),
	}
	c.assignIDs()

	passes := []struct {
		name string
		run  func() error
	}{
		{"groups", c.buildGroups},
		{"paths", c.buildPaths},
		{"rects", c.buildRects},
		{"circles", c.buildCircles},
		{"revolute joints", c.buildRevoluteJoints},
		{"ropes", c.buildRopes},
		{"welds", c.buildWelds},
	}
	for _, p := range passes {
		if err := p.run(); err != nil {
			return nil, eris.Wrapf(err, "compiler: %s", p.name)
		}
		c.log.Debug().
			Str("pass", p.name).
			Int("bodies", len(data.BodyMap)).
			Int("shapes", len(data.ShapeMap)).
			Int("joints", len(data.JointMap)).
			Msg("pass complete")
	}

	return data, nil
}

// CompileBytes parses and compiles an in-memory document.
func CompileBytes(src []byte, opts ...Option) (*physics.WorldData, error) {
	doc, err := svg.ParseBytes(src)
	if err != nil {
		return nil, &physics.Error{Kind: physics.InvalidDocument, Detail: err.Error()}
	}
	return Compile(doc, opts...)
}

// CompileFile reads and compiles the document at path.
func CompileFile(path string, opts ...Option) (*physics.WorldData, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "compiler: read %s", path)
	}
	data, err := CompileBytes(src, opts...)
	if err != nil {
		return nil, eris.Wrapf(err, "compiler: compile %s", path)
	}
	return data, nil
}

// assignIDs gives every id-less element a stable name from its tag and
// document position, so id-less shapes do not collide in the registries.
func (c *compiler) assignIDs() {
	for _, tag := range []string{"g", "path", "rect", "circle"} {
		for i, el := range c.doc.Elements(tag) {
			id := el.ID()
			if id == "" {
				id = fmt.Sprintf("%s#%d", tag, i)
			}
			c.ids[el] = id
		}
	}
}

func (c *compiler) id(el *svg.Element) string {
	if id, ok := c.ids[el]; ok {
		return id
	}
	return el.ID()
}

// elementOptions decodes an element's <desc>. Undecodable options are
// reported and replaced by the defaults.
func (c *compiler) elementOptions(el *svg.Element, id string) options.Options {
	text, ok := el.Description()
	if !ok {
		return options.Defaults()
	}
	opts, err := options.Parse(text)
	if err != nil {
		c.log.Warn().Str("element", id).Err(err).Msg("element options cannot be parsed, using defaults")
		return options.Defaults()
	}
	return opts
}

func (c *compiler) pathData(el *svg.Element, id string) ([]svg.Segment, error) {
	segs, err := el.PathData()
	if err != nil {
		return nil, &physics.Error{Kind: physics.InvalidDocument, ID: id, Detail: err.Error()}
	}
	return segs, nil
}

func toVector(p svg.Point) cp.Vector {
	return cp.Vector{X: p.X, Y: p.Y}
}
