package slab

import "strings"

// DefaultBeamClass replaces any beam height class outside BeamClasses.
const DefaultBeamClass = "H12"

// BeamClasses is the fixed set of standard beam heights, H8 through H32.
var BeamClasses = []string{
	"H8", "H10", "H12", "H14", "H16", "H18", "H20",
	"H22", "H24", "H26", "H28", "H30", "H32",
}

var beamClassSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(BeamClasses))
	for _, c := range BeamClasses {
		m[c] = struct{}{}
	}
	return m
}()

// IsBeamClass reports whether s is exactly one of BeamClasses.
func IsBeamClass(s string) bool {
	_, ok := beamClassSet[s]
	return ok
}

// NormalizeBeamClass upper-cases and trims s and returns it when it belongs to
// BeamClasses, DefaultBeamClass otherwise.
func NormalizeBeamClass(s string) string {
	c := strings.ToUpper(strings.TrimSpace(s))
	if IsBeamClass(c) {
		return c
	}
	return DefaultBeamClass
}
