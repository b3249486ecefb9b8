package compiler

import (
	"strings"

	"github.com/milk9111/svgworld/physics"
)

// Joint id suffixes. Mouse is reserved: such paths are never built into
// shapes and never compiled into joints.
const (
	SuffixJoint = "joint"
	SuffixWeld  = "weld"
	SuffixRope  = "rope"
	SuffixMouse = "mouse"
)

var constraintSuffixes = []string{SuffixJoint, SuffixRope, SuffixWeld, SuffixMouse}

// HasConstraintSuffix reports whether id names a joint, rope, weld or mouse
// path rather than a shape.
func HasConstraintSuffix(id string) bool {
	for _, s := range constraintSuffixes {
		if strings.Contains(id, "-"+s) {
			return true
		}
	}
	return false
}

func hasSuffix(id, suffix string) bool {
	return strings.Contains(id, "-"+suffix)
}

// ResolveJointBodies resolves `<a>-<b>-<suffix>` to bodies a and b, and
// `<a>-<suffix>` to a and the world's ground body.
func ResolveJointBodies(id string, data *physics.WorldData) (*physics.Body, *physics.Body, error) {
	parts := strings.Split(id, "-")
	if len(parts) != 2 && len(parts) != 3 {
		return nil, nil, &physics.Error{Kind: physics.InvalidJointIdArity, ID: id, Expected: 3, Actual: len(parts)}
	}

	body1, err := data.ResolveBody(id, parts[0])
	if err != nil {
		return nil, nil, err
	}

	if len(parts) == 2 {
		return body1, data.World.Ground(), nil
	}

	body2, err := data.ResolveBody(id, parts[1])
	if err != nil {
		return nil, nil, err
	}
	return body1, body2, nil
}
