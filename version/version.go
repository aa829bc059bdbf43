// Package version defines Pair, the (major, minor) version used for the PTX compiler library, the CUDA
// driver, the CUDA runtime and the JIT code generator.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Pair is a (major, minor) version. Pairs are ordered lexicographically, major first.
type Pair struct {
	Major, Minor int
}

// Compare returns -1 if p < other, 0 if they are equal and +1 if p > other.
func (p Pair) Compare(other Pair) int {
	switch {
	case p.Major < other.Major:
		return -1
	case p.Major > other.Major:
		return 1
	case p.Minor < other.Minor:
		return -1
	case p.Minor > other.Minor:
		return 1
	}
	return 0
}

// Less returns whether p < other.
func (p Pair) Less(other Pair) bool {
	return p.Compare(other) < 0
}

// IsZero returns whether p is the zero value (0.0), used for "unknown".
func (p Pair) IsZero() bool {
	return p.Major == 0 && p.Minor == 0
}

// String implements fmt.Stringer, e.g. "12.4".
func (p Pair) String() string {
	return fmt.Sprintf("%d.%d", p.Major, p.Minor)
}

// Parse a version in the format "major.minor". A third component (patch level, as in "12.4.1") must be a
// valid number, but it is not included in the Pair.
func Parse(s string) (Pair, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Pair{}, errors.Errorf("invalid version %q: expected \"<major>.<minor>\"", s)
	}
	var p Pair
	var err error
	p.Major, err = strconv.Atoi(parts[0])
	if err != nil || p.Major < 0 {
		return Pair{}, errors.Errorf("invalid major version in %q", s)
	}
	p.Minor, err = strconv.Atoi(parts[1])
	if err != nil || p.Minor < 0 {
		return Pair{}, errors.Errorf("invalid minor version in %q", s)
	}
	if len(parts) == 3 {
		if patch, err := strconv.Atoi(parts[2]); err != nil || patch < 0 {
			return Pair{}, errors.Errorf("invalid patch level in %q", s)
		}
	}
	return p, nil
}

// FromCUDAInt converts the integer encoding used by the CUDA driver and runtime APIs
// (1000*major + 10*minor, e.g. 12040 for 12.4) to a Pair.
func FromCUDAInt(v int) Pair {
	major := v / 1000
	minor := (v - major*1000) / 10
	return Pair{Major: major, Minor: minor}
}
