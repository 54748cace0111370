package config

import (
	"fmt"
	"math"
	"math/cmplx"
	"strconv"
	"strings"
)

// ParseComplex parses a constellation point. Cartesian values are written
// a+bi or a+bj, optionally in parentheses. A parenthesized pair
// (magnitude, turns) gives polar form.
func ParseComplex(s string) (complex128, error) {
	s = strings.TrimSpace(s)
	paren := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	inner := s
	if paren {
		inner = s[1 : len(s)-1]
	}

	if v, err := strconv.ParseComplex(strings.ReplaceAll(inner, "j", "i"), 128); err == nil && !strings.Contains(inner, ",") {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return 0, fmt.Errorf("%q is not a finite complex number", s)
		}
		return v, nil
	}
	if paren {
		if mag, turns, ok := strings.Cut(inner, ","); ok {
			m, err1 := parseFloat(mag)
			a, err2 := parseFloat(turns)
			if err1 == nil && err2 == nil {
				return cmplx.Rect(m, 2*math.Pi*a), nil
			}
		}
	}
	return 0, fmt.Errorf("%q is not a complex number", s)
}
