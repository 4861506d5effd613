package merge

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// rangeFloor returns the minimum version a range can be satisfied by.
//
// For each "||" branch the floor is the greatest lower bound among the
// branch's comparators (^, ~, =, >=, bare and wildcard versions bound from
// below at themselves with wildcards zeroed; > bounds at the next patch;
// < and <= and != add no lower bound). The range floor is the smallest
// branch floor. ok is false when the range is not a semver constraint
// (dist-tags such as "latest", git or file specifiers).
func rangeFloor(rng string) (*semver.Version, bool) {
	rng = strings.TrimSpace(rng)
	if rng == "" {
		return nil, false
	}
	if _, err := semver.NewConstraint(rng); err != nil {
		return nil, false
	}

	var floor *semver.Version
	for _, branch := range strings.Split(rng, "||") {
		bf, ok := branchFloor(branch)
		if !ok {
			return nil, false
		}
		if floor == nil || bf.LessThan(floor) {
			floor = bf
		}
	}
	return floor, floor != nil
}

func branchFloor(branch string) (*semver.Version, bool) {
	floor := semver.New(0, 0, 0, "", "")

	// Hyphen range: "1.2.3 - 2.3.4" is bounded below by its left side.
	if lo, _, found := strings.Cut(branch, " - "); found {
		v, ok := parseBound(lo)
		if !ok {
			return nil, false
		}
		return v, true
	}

	for _, cmp := range comparators(branch) {
		op, ver := splitOperator(cmp)
		var bound *semver.Version
		switch op {
		case "<", "<=", "!=":
			continue
		case ">":
			v, ok := parseBound(ver)
			if !ok {
				return nil, false
			}
			next := bumpPast(v, precision(ver))
			bound = &next
		default:
			v, ok := parseBound(ver)
			if !ok {
				return nil, false
			}
			bound = v
		}
		if bound.GreaterThan(floor) {
			floor = bound
		}
	}
	return floor, true
}

// comparators splits a branch into comparator tokens, joining operators
// that were separated from their version by whitespace ("> 1.2").
func comparators(branch string) []string {
	fields := strings.FieldsFunc(branch, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})

	var out []string
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if isOperator(f) && i+1 < len(fields) {
			f += fields[i+1]
			i++
		}
		out = append(out, f)
	}
	return out
}

var operators = []string{">=", "<=", "!=", "~>", ">", "<", "=", "^", "~"}

func isOperator(s string) bool {
	for _, op := range operators {
		if s == op {
			return true
		}
	}
	return false
}

func splitOperator(cmp string) (string, string) {
	for _, op := range operators {
		if strings.HasPrefix(cmp, op) {
			return op, strings.TrimSpace(cmp[len(op):])
		}
	}
	return "", cmp
}

// precision counts the numeric components given before any wildcard, so
// "1" and "1.x" are 1 and "1.2" is 2.
func precision(s string) int {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		s = s[:i]
	}
	n := 0
	for _, p := range strings.Split(s, ".") {
		if p == "" || p == "*" || p == "x" || p == "X" {
			break
		}
		n++
	}
	return n
}

// bumpPast returns the smallest version greater than every version that v
// matches at the given precision: ">1" starts at 2.0.0, ">1.2" at 1.3.0.
func bumpPast(v *semver.Version, prec int) semver.Version {
	switch prec {
	case 0:
		return *v
	case 1:
		return v.IncMajor()
	case 2:
		return v.IncMinor()
	default:
		return v.IncPatch()
	}
}

// parseBound parses a possibly partial or wildcard version ("1", "1.x",
// "1.2.*", "*") with missing and wildcard parts treated as zero.
func parseBound(s string) (*semver.Version, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if s == "" || s == "*" || s == "x" || s == "X" {
		return semver.New(0, 0, 0, "", ""), true
	}

	core, rest := s, ""
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		core, rest = s[:i], s[i:]
	}
	parts := strings.Split(core, ".")
	for i, p := range parts {
		if p == "*" || p == "x" || p == "X" {
			parts = parts[:i]
			rest = ""
			break
		}
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}

	v, err := semver.StrictNewVersion(strings.Join(parts[:3], ".") + rest)
	if err != nil {
		return nil, false
	}
	return v, true
}

// compareRanges orders two ranges by floor, then by text. Ranges without
// a semver floor sort below every range that has one.
func compareRanges(a, b string) int {
	fa, okA := rangeFloor(a)
	fb, okB := rangeFloor(b)

	switch {
	case okA && okB:
		if c := fa.Compare(fb); c != 0 {
			return c
		}
	case okA:
		return 1
	case okB:
		return -1
	}
	return strings.Compare(a, b)
}
