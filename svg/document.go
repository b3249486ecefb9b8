package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Element is one node of a parsed document. Only non-namespaced attributes are kept.
type Element struct {
	Name     string
	Attrs    map[string]string
	Children []*Element
	Parent   *Element
	Text     string
}

// Document is a parsed SVG tree.
type Document struct {
	Root *Element
}

// Parse reads an SVG document. The root element must be <svg>.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, eris.Wrap(err, "svg: decode")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				Name:  t.Name.Local,
				Attrs: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				if a.Name.Space != "" {
					continue
				}
				el.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				el.Parent = parent
				parent.Children = append(parent.Children, el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if root == nil {
		return nil, eris.New("svg: empty document")
	}
	if root.Name != "svg" {
		return nil, eris.Errorf("svg: root element is <%s>, want <svg>", root.Name)
	}
	return &Document{Root: root}, nil
}

// ParseBytes parses an in-memory document.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// Width returns the numeric prefix of the root width attribute, or 0.
func (d *Document) Width() float64 {
	if d == nil || d.Root == nil {
		return 0
	}
	return d.Root.Number("width")
}

// Height returns the numeric prefix of the root height attribute, or 0.
func (d *Document) Height() float64 {
	if d == nil || d.Root == nil {
		return 0
	}
	return d.Root.Number("height")
}

// Elements returns every element with the given tag in document order.
func (d *Document) Elements(name string) []*Element {
	if d == nil || d.Root == nil {
		return nil
	}
	return d.Root.Find(name)
}

// Attr returns the named attribute or "".
func (e *Element) Attr(name string) string {
	if e == nil || e.Attrs == nil {
		return ""
	}
	return e.Attrs[name]
}

// ID returns the id attribute.
func (e *Element) ID() string {
	return strings.TrimSpace(e.Attr("id"))
}

// Number parses the leading numeric prefix of an attribute ("100px" -> 100).
// Missing or non-numeric attributes yield 0.
func (e *Element) Number(name string) float64 {
	return leadingNumber(e.Attr(name))
}

// Find returns all descendants with the given tag in document order.
func (e *Element) Find(name string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	var walk func(n *Element)
	walk = func(n *Element) {
		for _, c := range n.Children {
			if c.Name == name {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(e)
	return out
}

// Group returns the nearest enclosing <g>, or nil.
func (e *Element) Group() *Element {
	if e == nil {
		return nil
	}
	for p := e.Parent; p != nil; p = p.Parent {
		if p.Name == "g" {
			return p
		}
	}
	return nil
}

// Description returns the text of the first <desc> below the element.
func (e *Element) Description() (string, bool) {
	descs := e.Find("desc")
	if len(descs) == 0 {
		return "", false
	}
	return strings.TrimSpace(descs[0].Text), true
}

// Translate returns the element's own translate() offset.
func (e *Element) Translate() Point {
	return ParseTranslate(e.Attr("transform"))
}

// PathData parses the d attribute.
func (e *Element) PathData() ([]Segment, error) {
	return ParsePathData(e.Attr("d"))
}

func leadingNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || ((c == '-' || c == '+') && end == 0) {
			end++
			continue
		}
		if (c == 'e' || c == 'E') && end > 0 && end+1 < len(s) {
			n := s[end+1]
			if (n >= '0' && n <= '9') || n == '-' || n == '+' {
				end += 2
				continue
			}
		}
		break
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}
