package main

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

type forceFlag struct {
	name   string
	body   string
	dx, dy float64
}

// parseForce reads name:body:dx:dy.
func parseForce(s string) (forceFlag, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return forceFlag{}, eris.Errorf("force %q: want name:body:dx:dy", s)
	}
	dx, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return forceFlag{}, eris.Wrapf(err, "force %q: dx", s)
	}
	dy, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return forceFlag{}, eris.Wrapf(err, "force %q: dy", s)
	}
	if parts[0] == "" || parts[1] == "" {
		return forceFlag{}, eris.Errorf("force %q: empty name or body", s)
	}
	return forceFlag{name: parts[0], body: parts[1], dx: dx, dy: dy}, nil
}

// parsePair reads a:b, where b may be the wildcard.
func parsePair(s string) (string, string, error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok || a == "" || b == "" {
		return "", "", eris.Errorf("contact %q: want body:body", s)
	}
	return a, b, nil
}
