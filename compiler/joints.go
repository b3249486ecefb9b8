package compiler

import (
	"github.com/milk9111/svgworld/physics"
	"github.com/milk9111/svgworld/svg"
)

// buildRevoluteJoints pins two bodies at the first vertex of each -joint path.
func (c *compiler) buildRevoluteJoints() error {
	return c.buildPivots(SuffixJoint, physics.Revolute)
}

// buildWelds pins two bodies and locks their relative rotation.
func (c *compiler) buildWelds() error {
	return c.buildPivots(SuffixWeld, physics.Weld)
}

func (c *compiler) buildPivots(suffix string, kind physics.JointKind) error {
	for _, el := range c.doc.Elements("path") {
		id := c.id(el)
		if !hasSuffix(id, suffix) {
			continue
		}

		body1, body2, err := ResolveJointBodies(id, c.data)
		if err != nil {
			return err
		}
		segs, err := c.pathData(el, id)
		if err != nil {
			return err
		}
		points := svg.Vertices(segs)
		if len(points) == 0 {
			return &physics.Error{Kind: physics.DegenerateGeometry, ID: id, Expected: 1}
		}

		j := &physics.Joint{
			ID:     id,
			Kind:   kind,
			Anchor: toVector(points[0].Add(el.Translate())),
			Body1:  body1,
			Body2:  body2,
		}
		if err := c.addJoint(j); err != nil {
			return err
		}
	}
	return nil
}

// buildRopes joins two bodies at a fixed distance between the first two
// vertices of each -rope path.
func (c *compiler) buildRopes() error {
	for _, el := range c.doc.Elements("path") {
		id := c.id(el)
		if !hasSuffix(id, SuffixRope) {
			continue
		}

		body1, body2, err := ResolveJointBodies(id, c.data)
		if err != nil {
			return err
		}
		segs, err := c.pathData(el, id)
		if err != nil {
			return err
		}
		points := svg.Vertices(dropLeadingZeroMove(segs))
		if len(points) < 2 {
			return &physics.Error{Kind: physics.DegenerateGeometry, ID: id, Expected: 2, Actual: len(points)}
		}

		t := el.Translate()
		j := &physics.Joint{
			ID:      id,
			Kind:    physics.Distance,
			Anchor:  toVector(points[0].Add(t)),
			Anchor2: toVector(points[1].Add(t)),
			Body1:   body1,
			Body2:   body2,
		}
		if err := c.addJoint(j); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) addJoint(j *physics.Joint) error {
	if err := c.data.World.AddJoint(j); err != nil {
		return err
	}
	c.data.AddJoint(j)
	return nil
}

func dropLeadingZeroMove(segs []svg.Segment) []svg.Segment {
	if len(segs) == 0 {
		return segs
	}
	first := segs[0]
	if (first.Command == 'm' || first.Command == 'M') && first.X == 0 && first.Y == 0 {
		return segs[1:]
	}
	return segs
}
