// Package script binds tengo scripts to contact events.
//
// A contact script defines on_start, on_end or both:
//
//	on_start := func(engine, state, a, b, scope) {
//		engine.add_force("lift", a, 0, -500)
//		engine.create_joint(a, b, a + "-" + b + "-rope")
//	}
//
// a and b are body ids in subscription order. state is a map that persists
// across calls; everything else in the script is re-evaluated per event.
package script

import (
	"os"
	"regexp"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/svgworld/physics"
	"github.com/milk9111/svgworld/runner"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Engine is the part of the runner a script can drive.
type Engine interface {
	Data() *physics.WorldData
	Tick() uint64
	AddForce(name, bodyID string, dx, dy float64)
	RemoveForce(name string) bool
	EnqueueJoint(req runner.JointRequest)
	DestroyJoint(name string) error
}

var handlerPattern = regexp.MustCompile(`(?m)^\s*(on_start|on_end)\s*:=`)

// ContactScript is a runner.ContactHandler backed by a compiled script.
type ContactScript struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	engine   *tengo.ImmutableMap
	log      zerolog.Logger
}

// Option configures a ContactScript.
type Option func(*ContactScript)

// WithLogger sets the logger for script errors and engine.log output.
func WithLogger(l zerolog.Logger) Option {
	return func(s *ContactScript) {
		s.log = l.With().Str("component", "script").Str("script", s.name).Logger()
	}
}

// LoadFile compiles the script at path.
func LoadFile(path string, engine Engine, opts ...Option) (*ContactScript, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "script: read %s", path)
	}
	return New(path, src, engine, opts...)
}

// New compiles src. It fails if src defines neither on_start nor on_end.
func New(name string, src []byte, engine Engine, opts ...Option) (*ContactScript, error) {
	if engine == nil {
		return nil, eris.New("script: nil engine")
	}

	defined := map[string]bool{}
	for _, m := range handlerPattern.FindAllSubmatch(src, -1) {
		defined[string(m[1])] = true
	}
	if len(defined) == 0 {
		return nil, eris.Errorf("script: %s defines neither on_start nor on_end", name)
	}

	full := string(src) + "\n" + dispatchSource(defined)
	sc := tengo.NewScript([]byte(full))
	_ = sc.Add("__phase", "")
	_ = sc.Add("__engine", map[string]any{})
	_ = sc.Add("__state", map[string]any{})
	_ = sc.Add("__a", "")
	_ = sc.Add("__b", "")
	_ = sc.Add("__scope", nil)
	sc.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := sc.Compile()
	if err != nil {
		return nil, eris.Wrapf(err, "script: compile %s", name)
	}

	s := &ContactScript{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		log:      log.With().Str("component", "script").Str("script", name).Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.buildEngine(engine)
	return s, nil
}

func dispatchSource(defined map[string]bool) string {
	var b strings.Builder
	for _, phase := range []string{"start", "end"} {
		fn := "on_" + phase
		if !defined[fn] {
			continue
		}
		b.WriteString("if __phase == \"" + phase + "\" {\n")
		b.WriteString("\t" + fn + "(__engine, __state, __a, __b, __scope)\n")
		b.WriteString("}\n")
	}
	return b.String()
}

// Name returns the script's name or path.
func (s *ContactScript) Name() string {
	return s.name
}

// State returns the persistent state map as Go values.
func (s *ContactScript) State() map[string]any {
	out, _ := tengo.ToInterface(s.state).(map[string]any)
	return out
}

// ContactStart runs on_start.
func (s *ContactScript) ContactStart(a, b *physics.Body, scope any) {
	if err := s.run("start", a, b, scope); err != nil {
		s.log.Warn().Err(err).Str("phase", "start").Msg("contact script failed")
	}
}

// ContactEnd runs on_end.
func (s *ContactScript) ContactEnd(a, b *physics.Body, scope any) {
	if err := s.run("end", a, b, scope); err != nil {
		s.log.Warn().Err(err).Str("phase", "end").Msg("contact script failed")
	}
}

func (s *ContactScript) run(phase string, a, b *physics.Body, scope any) error {
	scopeObj, err := tengo.FromInterface(scope)
	if err != nil {
		scopeObj = tengo.UndefinedValue
	}
	vars := []struct {
		name  string
		value any
	}{
		{"__phase", phase},
		{"__engine", s.engine},
		{"__state", s.state},
		{"__a", bodyID(a)},
		{"__b", bodyID(b)},
		{"__scope", scopeObj},
	}
	for _, v := range vars {
		if err := s.compiled.Set(v.name, v.value); err != nil {
			return eris.Wrapf(err, "script: set %s", v.name)
		}
	}
	if err := s.compiled.Run(); err != nil {
		return eris.Wrapf(err, "script: run %s", s.name)
	}
	return nil
}

func bodyID(b *physics.Body) string {
	if b == nil {
		return ""
	}
	return b.ID
}
