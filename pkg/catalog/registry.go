package catalog

import "fmt"

// Registry hands out unique mask names for one cataloging run.
// It is not safe for concurrent use; names are claimed during the
// sequential aggregation pass.
type Registry struct {
	taken map[string]struct{}
}

// NewRegistry creates an empty name registry.
func NewRegistry() *Registry {
	return &Registry{taken: make(map[string]struct{})}
}

// Claim reserves a name derived from stem. The first claim keeps the
// stem itself; later claims of the same stem receive numbered variants
// such as stem_1 and stem_2. The second return value reports whether
// the name differs from the requested stem.
func (r *Registry) Claim(stem string) (string, bool) {
	if _, ok := r.taken[stem]; !ok {
		r.taken[stem] = struct{}{}
		return stem, false
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", stem, i)
		if _, ok := r.taken[candidate]; !ok {
			r.taken[candidate] = struct{}{}
			return candidate, true
		}
	}
}
