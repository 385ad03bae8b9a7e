package surface

import (
	"math/bits"
	"strings"

	"github.com/oomph-ac/groundcheck/assert"
)

// Label is a single surface classification, stored as a bit index in the
// range [0, MaxLabels). Set methods panic on labels outside it.
type Label uint8

// MaxLabels is the number of distinct labels a Set can hold.
const MaxLabels = 64

// Set is a bit-flag set of surface labels.
type Set uint64

// None is the empty Set. Colliders carrying it are never ground.
const None Set = 0

// Of returns a Set containing the labels passed.
func Of(labels ...Label) Set {
	var s Set
	for _, l := range labels {
		s = s.With(l)
	}
	return s
}

// With returns s with l added.
func (s Set) With(l Label) Set {
	return s | bit(l)
}

// Without returns s with l removed.
func (s Set) Without(l Label) Set {
	return s &^ bit(l)
}

// Has returns whether l is in s.
func (s Set) Has(l Label) bool {
	return s&bit(l) != 0
}

func bit(l Label) Set {
	assert.IsTrue(l < MaxLabels, "surface: label %d out of range, must be below %d", l, MaxLabels)
	return 1 << l
}

// Intersects returns whether s and o share at least one label.
func (s Set) Intersects(o Set) bool {
	return s&o != 0
}

// Empty returns whether no labels are set.
func (s Set) Empty() bool {
	return s == None
}

// Len returns the number of labels in s.
func (s Set) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Labels returns the labels in s in ascending bit order.
func (s Set) Labels() []Label {
	labels := make([]Label, 0, s.Len())
	for rem := uint64(s); rem != 0; rem &= rem - 1 {
		labels = append(labels, Label(bits.TrailingZeros64(rem)))
	}
	return labels
}

// Format formats the set using the names held by r. Labels unknown to r are
// printed as their bit index.
func (s Set) Format(r *Registry) string {
	names := make([]string, 0, s.Len())
	for _, l := range s.Labels() {
		names = append(names, r.Name(l))
	}
	return "{" + strings.Join(names, ", ") + "}"
}
