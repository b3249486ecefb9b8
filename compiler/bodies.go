package compiler

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/svgworld/options"
	"github.com/milk9111/svgworld/physics"
	"github.com/milk9111/svgworld/svg"
)

var groupChildTags = []string{"path", "rect", "circle"}

// buildGroups creates one body per <g>. A group owns the elements whose
// nearest enclosing group it is; its position is the sum of its own and
// its ancestors' translations.
func (c *compiler) buildGroups() error {
	for _, g := range c.doc.Elements("g") {
		id := c.id(g)
		pending := make(map[string]bool)
		var shapes []*physics.Shape
		hidden := false

		for _, tag := range groupChildTags {
			for _, el := range g.Find(tag) {
				if el.Group() != g {
					continue
				}
				elID := c.id(el)
				if c.data.HasShape(elID) || pending[elID] {
					continue
				}
				if tag == "path" && HasConstraintSuffix(elID) {
					continue
				}

				opts := c.elementOptions(el, elID)
				if tag == "rect" && opts.ViewBox {
					c.addViewBox(el, elID)
					continue
				}

				s, err := c.buildShape(tag, el, elID, opts)
				if err != nil {
					return err
				}
				pending[elID] = true
				shapes = append(shapes, s)
				hidden = opts.Hidden
			}
		}

		body := c.data.World.AddBody(id, groupTranslation(g), shapes)
		body.Hidden = hidden
		c.data.AddBody(body)
	}
	return nil
}

// buildPaths creates a body at the origin for every path not yet built
// that is not a joint path.
func (c *compiler) buildPaths() error {
	return c.buildStandalone("path")
}

// buildRects creates boxes for unbuilt rects and records view boxes.
func (c *compiler) buildRects() error {
	return c.buildStandalone("rect")
}

// buildCircles creates a body for every circle not yet built.
func (c *compiler) buildCircles() error {
	return c.buildStandalone("circle")
}

func (c *compiler) buildStandalone(tag string) error {
	for _, el := range c.doc.Elements(tag) {
		id := c.id(el)
		if c.data.HasShape(id) {
			continue
		}
		if tag == "path" && HasConstraintSuffix(id) {
			continue
		}

		opts := c.elementOptions(el, id)
		if tag == "rect" && opts.ViewBox {
			c.addViewBox(el, id)
			continue
		}

		s, err := c.buildShape(tag, el, id, opts)
		if err != nil {
			return err
		}
		body := c.data.World.AddBody(id, cp.Vector{}, []*physics.Shape{s})
		body.Hidden = opts.Hidden
		c.data.AddBody(body)
	}
	return nil
}

func (c *compiler) buildShape(tag string, el *svg.Element, id string, opts options.Options) (*physics.Shape, error) {
	switch tag {
	case "path":
		segs, err := c.pathData(el, id)
		if err != nil {
			return nil, err
		}
		return buildPolygon(id, segs, opts)
	case "rect":
		return buildBox(el, id, opts)
	default:
		return buildCircle(el, id, opts), nil
	}
}

func (c *compiler) addViewBox(el *svg.Element, id string) {
	if _, ok := c.data.ViewBoxes[id]; ok {
		return
	}
	c.data.AddViewBox(id, physics.ViewBox{
		X:      el.Number("x"),
		Y:      el.Number("y"),
		Width:  el.Number("width"),
		Height: el.Number("height"),
	})
}

func groupTranslation(g *svg.Element) cp.Vector {
	var t svg.Point
	for p := g; p != nil; p = p.Group() {
		t = t.Add(p.Translate())
	}
	return toVector(t)
}
