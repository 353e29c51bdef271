// Package implmatch implements the type/relationship implementation
// candidate-matching rule shared by the Node Processor (§4.9 steps 2 and 6):
// find the unique implementation matching a predicate, removing it from the
// pool on success, and raising an ambiguity error when more than one
// candidate matches.
package implmatch

import "github.com/cloudify-tosca/blueprint/pkg/errdef"

// Find scans implementations for every entry matching candidateFunc. Zero
// matches returns ok=false with no error. More than one match is an
// ambiguity LogicError carrying ambiguousCode. A single match is returned
// without being removed from implementations — call Consume once the
// caller has verified any further constraints (e.g. type derivation).
func Find(implementations map[string]map[string]any, candidateFunc func(name string, impl map[string]any) bool, ambiguousCode int, ambiguousMsg string) (name string, impl map[string]any, ok bool, err error) {
	var names []string
	for n, content := range implementations {
		if candidateFunc(n, content) {
			names = append(names, n)
		}
	}
	if len(names) > 1 {
		return "", nil, false, errdef.NewLogicError(ambiguousCode, "%s", ambiguousMsg).WithImplementations(names)
	}
	if len(names) == 0 {
		return "", nil, false, nil
	}
	return names[0], implementations[names[0]], true, nil
}

// Consume removes name from implementations, marking it used.
func Consume(implementations map[string]map[string]any, name string) {
	delete(implementations, name)
}
