package surface

import (
	"strconv"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/groundcheck/oerror"
)

const (
	// WalkableSurface is the label for floors, terrain and platforms.
	WalkableSurface = "walkableSurface"
	// Block is the label for solid blocks a body may stand on.
	Block = "block"
	// Wall is the label for vertical geometry. It is registered by default but
	// is not part of the default ground set.
	Wall = "wall"
)

// DefaultGround holds the label names treated as ground when no configuration
// says otherwise.
var DefaultGround = []string{WalkableSurface, Block}

// Registry maps label names to bits. Names are assigned bits in registration
// order, so two registries fed the same names produce identical sets.
// A Registry is not safe for concurrent mutation; resolve labels at
// configuration time and share the resulting Sets.
type Registry struct {
	labels *orderedmap.OrderedMap[string, Label]
	names  [MaxLabels]string
}

// NewRegistry returns a Registry with the default labels registered.
func NewRegistry() *Registry {
	r := &Registry{labels: orderedmap.NewOrderedMap[string, Label]()}
	for _, name := range []string{WalkableSurface, Block, Wall} {
		_, _ = r.Register(name)
	}
	return r
}

// Register returns the label for name, assigning the next free bit if name
// has not been seen before.
func (r *Registry) Register(name string) (Label, error) {
	if l, ok := r.labels.Get(name); ok {
		return l, nil
	}
	if r.labels.Len() >= MaxLabels {
		return 0, oerror.New("surface: cannot register %q: registry already holds %d labels", name, MaxLabels)
	}
	l := Label(r.labels.Len())
	r.labels.Set(name, l)
	r.names[l] = name
	return l, nil
}

// Lookup returns the label registered under name.
func (r *Registry) Lookup(name string) (Label, bool) {
	return r.labels.Get(name)
}

// Name returns the name registered for l, or its bit index if none is.
func (r *Registry) Name(l Label) string {
	if int(l) < len(r.names) && r.names[l] != "" {
		return r.names[l]
	}
	return "#" + strconv.Itoa(int(l))
}

// Resolve registers every name passed and returns the Set holding them.
func (r *Registry) Resolve(names ...string) (Set, error) {
	var s Set
	for _, name := range names {
		l, err := r.Register(name)
		if err != nil {
			return s, err
		}
		s = s.With(l)
	}
	return s, nil
}

// MustResolve is Resolve that panics on error.
func (r *Registry) MustResolve(names ...string) Set {
	s, err := r.Resolve(names...)
	if err != nil {
		panic(err)
	}
	return s
}

// Names returns all registered names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.labels.Len())
	for el := r.labels.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

// Len returns the number of registered labels.
func (r *Registry) Len() int {
	return r.labels.Len()
}
