package svg

import (
	"regexp"
	"strconv"
)

var translatePattern = regexp.MustCompile(`translate\(\s*([-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)(?:\s*,?\s*([-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?))?\s*\)`)

// ParseTranslate extracts the first translate(x[, y]) from a transform attribute.
// Other transform functions are ignored; a missing y is 0.
func ParseTranslate(attr string) Point {
	m := translatePattern.FindStringSubmatch(attr)
	if m == nil {
		return Point{}
	}
	x, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Point{}
	}
	var y float64
	if m[2] != "" {
		y, err = strconv.ParseFloat(m[2], 64)
		if err != nil {
			return Point{}
		}
	}
	return Point{X: x, Y: y}
}
