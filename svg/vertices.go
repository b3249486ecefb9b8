package svg

// Point is a 2D coordinate in document space.
type Point struct {
	X, Y float64
}

// Add returns p translated by o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Vertices walks path segments from a cursor at (0,0) and returns the
// absolute endpoint of every positional segment. Close-path segments are
// skipped and leave the cursor where it is.
func Vertices(segs []Segment) []Point {
	out := make([]Point, 0, len(segs))
	var cur Point

	for _, s := range segs {
		if s.Closes() {
			continue
		}

		next := cur
		switch upper(s.Command) {
		case 'H':
			if s.Relative() {
				next.X = cur.X + s.X
			} else {
				next.X = s.X
			}
		case 'V':
			if s.Relative() {
				next.Y = cur.Y + s.Y
			} else {
				next.Y = s.Y
			}
		default:
			if s.Relative() {
				next = Point{X: cur.X + s.X, Y: cur.Y + s.Y}
			} else {
				next = Point{X: s.X, Y: s.Y}
			}
		}

		out = append(out, next)
		cur = next
	}

	return out
}
