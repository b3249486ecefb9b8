package svg

import (
	"strconv"

	"github.com/rotisserie/eris"
)

// Segment is one command of a path's d attribute reduced to its endpoint.
// Upper-case commands are absolute, lower-case relative. For H/h only X is
// meaningful, for V/v only Y.
type Segment struct {
	Command byte
	X, Y    float64
}

// Relative reports whether the segment is expressed relative to the cursor.
func (s Segment) Relative() bool {
	return s.Command >= 'a' && s.Command <= 'z'
}

// Closes reports whether the segment is a close-path command.
func (s Segment) Closes() bool {
	return s.Command == 'Z' || s.Command == 'z'
}

// arity is the number of numbers each command consumes.
var arity = map[byte]int{
	'M': 2, 'L': 2, 'T': 2,
	'H': 1, 'V': 1,
	'S': 4, 'Q': 4,
	'C': 6,
	'A': 7,
	'Z': 0,
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// ParsePathData tokenizes a path d attribute into segments.
// A moveto followed by extra coordinate pairs repeats as lineto; every other
// command repeats as itself.
func ParsePathData(d string) ([]Segment, error) {
	p := &pathScanner{src: d}
	var out []Segment
	var cmd byte

	for {
		p.skipSeparators()
		if p.done() {
			break
		}

		c := p.peek()
		if _, ok := arity[upper(c)]; ok {
			cmd = c
			p.pos++
		} else if cmd == 0 {
			return nil, eris.Errorf("svg: path data: expected command at offset %d", p.pos)
		} else if upper(cmd) == 'Z' {
			return nil, eris.Errorf("svg: path data: unexpected number after close at offset %d", p.pos)
		}

		n := arity[upper(cmd)]
		if n == 0 {
			out = append(out, Segment{Command: cmd})
			continue
		}

		args := make([]float64, n)
		for i := 0; i < n; i++ {
			p.skipSeparators()
			var v float64
			var err error
			if upper(cmd) == 'A' && (i == 3 || i == 4) {
				v, err = p.flag()
			} else {
				v, err = p.number()
			}
			if err != nil {
				return nil, err
			}
			args[i] = v
		}

		seg := Segment{Command: cmd}
		switch upper(cmd) {
		case 'H':
			seg.X = args[0]
		case 'V':
			seg.Y = args[0]
		default:
			seg.X = args[n-2]
			seg.Y = args[n-1]
		}
		out = append(out, seg)

		switch cmd {
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		}
	}

	return out, nil
}

type pathScanner struct {
	src string
	pos int
}

func (p *pathScanner) done() bool {
	return p.pos >= len(p.src)
}

func (p *pathScanner) peek() byte {
	return p.src[p.pos]
}

func (p *pathScanner) skipSeparators() {
	for !p.done() {
		switch p.peek() {
		case ' ', '\t', '\n', '\r', ',':
			p.pos++
		default:
			return
		}
	}
}

func (p *pathScanner) flag() (float64, error) {
	if p.done() {
		return 0, eris.Errorf("svg: path data: missing arc flag at offset %d", p.pos)
	}
	switch p.peek() {
	case '0':
		p.pos++
		return 0, nil
	case '1':
		p.pos++
		return 1, nil
	}
	return 0, eris.Errorf("svg: path data: bad arc flag %q at offset %d", p.peek(), p.pos)
}

func (p *pathScanner) number() (float64, error) {
	start := p.pos
	if !p.done() && (p.peek() == '-' || p.peek() == '+') {
		p.pos++
	}
	digits := 0
	for !p.done() && isDigit(p.peek()) {
		p.pos++
		digits++
	}
	if !p.done() && p.peek() == '.' {
		p.pos++
		for !p.done() && isDigit(p.peek()) {
			p.pos++
			digits++
		}
	}
	if digits == 0 {
		p.pos = start
		return 0, eris.Errorf("svg: path data: malformed number at offset %d", start)
	}
	if !p.done() && (p.peek() == 'e' || p.peek() == 'E') {
		mark := p.pos
		p.pos++
		if !p.done() && (p.peek() == '-' || p.peek() == '+') {
			p.pos++
		}
		exp := 0
		for !p.done() && isDigit(p.peek()) {
			p.pos++
			exp++
		}
		if exp == 0 {
			p.pos = mark
		}
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, eris.Wrapf(err, "svg: path data: malformed number at offset %d", start)
	}
	return v, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
