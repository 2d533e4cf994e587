// Package version models the document version triple and its comparison,
// independent of the structural upgrade pipeline that consumes it.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a major.minor.patch triple with lexicographic ordering.
type Version struct {
	Major, Minor, Patch int
}

// Current is the runtime version new documents are upgraded to.
var Current = Version{Major: 2, Minor: 0, Patch: 0}

// Parse parses a dotted "M.m.p" string. All three components are required.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("version %q must have exactly three dot-separated components", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("version %q has a non-numeric component %q", s, p)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String renders the version as "M.m.p".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than o.
func (v Version) Compare(o Version) int {
	for _, pair := range [][2]int{{v.Major, o.Major}, {v.Minor, o.Minor}, {v.Patch, o.Patch}} {
		if pair[0] != pair[1] {
			if pair[0] < pair[1] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// Equal reports whether v and o are the same triple.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}
