// Package options decodes the per-element physics options carried in an
// element's <desc> text.
package options

import (
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only options record version understood by Parse.
const CurrentVersion = 1

// Options is the decoded option record for one element.
type Options struct {
	Version int
	Fixed   bool
	Density float64
	Hidden  bool
	ViewBox bool

	// Nil means the shape keeps its kind's default.
	Friction    *float64
	Restitution *float64
}

// Defaults returns the record used when an element carries no options or
// its options fail to decode.
func Defaults() Options {
	return Options{
		Version: CurrentVersion,
		Fixed:   false,
		Density: 1.0,
		Hidden:  false,
	}
}

type rawOptions struct {
	Version     *int     `yaml:"version"`
	Fixed       *bool    `yaml:"fixed"`
	Density     *float64 `yaml:"density"`
	Hidden      *bool    `yaml:"hidden"`
	ViewBox     *bool    `yaml:"viewBox"`
	Friction    *float64 `yaml:"friction"`
	Restitution *float64 `yaml:"restitution"`
}

// Parse decodes desc text as the body of a flow mapping, so both
// `fixed: true` and `"fixed": true` are accepted. Keys that are present
// override Defaults; absent keys keep them.
func Parse(text string) (Options, error) {
	out := Defaults()

	text = strings.TrimSpace(text)
	if text == "" {
		return out, nil
	}

	var raw rawOptions
	if err := yaml.Unmarshal([]byte("{"+text+"}"), &raw); err != nil {
		return Options{}, eris.Wrapf(err, "options: decode %q", text)
	}

	if raw.Version != nil {
		if *raw.Version != CurrentVersion {
			return Options{}, eris.Errorf("options: unsupported version %d", *raw.Version)
		}
		out.Version = *raw.Version
	}
	if raw.Fixed != nil {
		out.Fixed = *raw.Fixed
	}
	// A fixed element never uses its density, so any value is accepted.
	if raw.Density != nil && !out.Fixed {
		if *raw.Density <= 0 {
			return Options{}, eris.Errorf("options: density must be positive, got %g", *raw.Density)
		}
		out.Density = *raw.Density
	}
	if raw.Hidden != nil {
		out.Hidden = *raw.Hidden
	}
	if raw.ViewBox != nil {
		out.ViewBox = *raw.ViewBox
	}
	if raw.Friction != nil {
		if *raw.Friction < 0 {
			return Options{}, eris.Errorf("options: friction must not be negative, got %g", *raw.Friction)
		}
		out.Friction = raw.Friction
	}
	if raw.Restitution != nil {
		if *raw.Restitution < 0 {
			return Options{}, eris.Errorf("options: restitution must not be negative, got %g", *raw.Restitution)
		}
		out.Restitution = raw.Restitution
	}

	return out, nil
}

// EffectiveDensity is the density a shape built from these options gets:
// zero when fixed.
func (o Options) EffectiveDensity() float64 {
	if o.Fixed {
		return 0
	}
	return o.Density
}
