// Package function implements the Function Validator (spec §4.12): scanning
// every property value in a compiled plan for intrinsic-function literals
// (get_property, get_attribute, get_input, concat, or a user-registered
// function), validating each one, statically evaluating get_property calls
// (with circular-reference detection), and leaving every other leaf in its
// original raw form. get_attribute evaluation is deferred to runtime, per
// spec §1's non-goal on evaluating outputs against live node-instance state.
//
// The registry is additive over spec.md's fixed four-function set: Register
// lets a host application add its own intrinsic function, grounded on
// original_source/tests/test_register_function.py's functions.register /
// functions.unregister extension point.
package function

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cloudify-tosca/blueprint/pkg/constants"
	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/graph"
	"github.com/cloudify-tosca/blueprint/pkg/model"
)

// Function is an intrinsic function literal: a single-key mapping whose key
// names the function and whose value carries its arguments.
type Function interface {
	// ParseArgs stores the raw argument value (the single value under the
	// function's key) for later validation/evaluation.
	ParseArgs(args any)
	// Validate checks the function's arguments are well-formed against plan,
	// e.g. that a referenced node or input actually exists.
	Validate(plan *model.Plan) error
	// Evaluate resolves the function to a value at compile time. Functions
	// that cannot resolve until runtime (get_attribute) return the error
	// ErrDeferred.
	Evaluate(plan *model.Plan) (any, error)
	// Raw returns the function's original mapping form, e.g.
	// {"get_property": ["node", "prop"]}.
	Raw() map[string]any
}

// ErrDeferred is returned by Evaluate for functions with no compile-time
// value, e.g. get_attribute.
var ErrDeferred = fmt.Errorf("function has no compile-time value")

// Factory constructs a new, unparsed instance of a registered function.
type Factory func() Function

var (
	registryMu sync.Mutex
	registry   = map[string]Factory{
		"get_property":  func() Function { return &GetProperty{} },
		"get_attribute": func() Function { return &GetAttribute{} },
		"get_input":     func() Function { return &GetInput{} },
		"concat":        func() Function { return &Concat{} },
	}
)

// Register adds or replaces a named intrinsic function in the registry.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Unregister removes name from the registry, if present.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, name)
}

// parseLeaf reports whether v is a function-literal mapping — a
// single-key map[string]any whose key is a registered function name — and
// if so, returns the parsed Function instance.
func parseLeaf(v any) (Function, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return nil, false
	}
	for key, args := range m {
		registryMu.Lock()
		factory, known := registry[key]
		registryMu.Unlock()
		if !known {
			return nil, false
		}
		fn := factory()
		fn.ParseArgs(args)
		return fn, true
	}
	return nil, false
}

// baseFunction holds the fields every built-in function shares: its raw
// argument value and the mapping it was parsed from.
type baseFunction struct {
	name string
	args any
	raw  map[string]any
}

func (b *baseFunction) ParseArgs(args any) {
	b.args = args
	b.raw = map[string]any{b.name: args}
}

func (b *baseFunction) Raw() map[string]any { return b.raw }

func (b *baseFunction) argList() []any {
	list, _ := b.args.([]any)
	return list
}

// GetProperty resolves a node's (possibly nested) property value, statically,
// at compile time.
type GetProperty struct{ baseFunction }

func (g *GetProperty) ParseArgs(args any) {
	g.name = "get_property"
	g.baseFunction.ParseArgs(args)
}

// NodeName returns the target node id: get_property's first argument.
func (g *GetProperty) NodeName() string {
	list := g.argList()
	if len(list) == 0 {
		return ""
	}
	s, _ := list[0].(string)
	return s
}

// PropertyPath returns the dot-path into the node's properties: every
// get_property argument after the node name.
func (g *GetProperty) PropertyPath() []string {
	list := g.argList()
	if len(list) < 2 {
		return nil
	}
	path := make([]string, 0, len(list)-1)
	for _, v := range list[1:] {
		s, _ := v.(string)
		path = append(path, s)
	}
	return path
}

func (g *GetProperty) Validate(plan *model.Plan) error {
	node := plan.NodeByID(g.NodeName())
	if node == nil {
		return errdef.NewLogicError(21,
			"get_property function node argument %q does not exist", g.NodeName()).WithNodeRef(g.NodeName())
	}
	if _, err := navigate(node.Properties, g.PropertyPath()); err != nil {
		return errdef.NewLogicError(21,
			"get_property function property path %s does not exist in node %s: %v",
			strings.Join(g.PropertyPath(), constants.FunctionPathSeparator), g.NodeName(), err).WithNodeRef(g.NodeName())
	}
	return nil
}

func (g *GetProperty) Evaluate(plan *model.Plan) (any, error) {
	return resolveGetProperty(plan, g.NodeName(), g.PropertyPath(), nil)
}

// Identity is the (node, property path) pair that uniquely keys a
// get_property call for circular-reference detection, per spec §4.12.
func (g *GetProperty) Identity() string {
	return g.NodeName() + "." + strings.Join(g.PropertyPath(), constants.FunctionPathSeparator)
}

func resolveGetProperty(plan *model.Plan, nodeName string, path []string, visited []string) (any, error) {
	id := nodeName + "." + strings.Join(path, constants.FunctionPathSeparator)
	for _, v := range visited {
		if v == id {
			chain := append(append([]string(nil), visited...), id)
			cycle := graph.NewCycle(chain)
			return nil, fmt.Errorf("Circular get_property function call detected: %s", cycle.String())
		}
	}
	visited = append(visited, id)

	node := plan.NodeByID(nodeName)
	if node == nil {
		return nil, fmt.Errorf("get_property: node %q does not exist", nodeName)
	}
	val, err := navigate(node.Properties, path)
	if err != nil {
		return nil, fmt.Errorf("get_property: %w", err)
	}

	if nested, ok := val.(map[string]any); ok {
		if fn, ok := parseLeaf(nested); ok {
			if gp, ok := fn.(*GetProperty); ok {
				return resolveGetProperty(plan, gp.NodeName(), gp.PropertyPath(), visited)
			}
		}
	}
	return val, nil
}

// navigate walks a nested map[string]any by successive string keys.
func navigate(properties map[string]any, path []string) (any, error) {
	var current any = properties
	for i, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("path segment %d (%q) is not a mapping", i, key)
		}
		v, ok := m[key]
		if !ok {
			return nil, fmt.Errorf("no such property %q", key)
		}
		current = v
	}
	return current, nil
}

// GetAttribute references a node-instance runtime attribute. It has no
// compile-time value; it validates that its node argument exists and is
// otherwise left in its raw form for a later runtime-evaluation pass.
type GetAttribute struct{ baseFunction }

func (g *GetAttribute) ParseArgs(args any) {
	g.name = "get_attribute"
	g.baseFunction.ParseArgs(args)
}

func (g *GetAttribute) Validate(plan *model.Plan) error {
	list := g.argList()
	if len(list) == 0 {
		return errdef.NewLogicError(21, "get_attribute function requires a node argument")
	}
	nodeName, _ := list[0].(string)
	if plan.NodeByID(nodeName) == nil {
		return errdef.NewLogicError(21,
			"get_attribute function node argument %q does not exist", nodeName).WithNodeRef(nodeName)
	}
	return nil
}

func (g *GetAttribute) Evaluate(*model.Plan) (any, error) { return nil, ErrDeferred }

// GetInput resolves a declared input's default value at compile time.
type GetInput struct{ baseFunction }

func (g *GetInput) ParseArgs(args any) {
	g.name = "get_input"
	g.baseFunction.ParseArgs(args)
}

func (g *GetInput) inputName() string {
	s, _ := g.args.(string)
	return s
}

func (g *GetInput) Validate(plan *model.Plan) error {
	if _, ok := plan.Inputs[g.inputName()]; !ok {
		return errdef.NewLogicError(21,
			"get_input function argument %q is not a declared input", g.inputName())
	}
	return nil
}

func (g *GetInput) Evaluate(plan *model.Plan) (any, error) {
	def, _ := plan.Inputs[g.inputName()].(map[string]any)
	if def == nil {
		return nil, nil
	}
	return def["default"], nil
}

// Concat joins its evaluated arguments into a single string. Arguments that
// are themselves function literals are validated and evaluated; a nested
// function with no compile-time value (get_attribute) makes Evaluate return
// that function's error, ErrDeferred.
type Concat struct{ baseFunction }

func (c *Concat) ParseArgs(args any) {
	c.name = "concat"
	c.baseFunction.ParseArgs(args)
}

func (c *Concat) Validate(plan *model.Plan) error {
	for _, item := range c.argList() {
		if nested, ok := item.(map[string]any); ok {
			if fn, ok := parseLeaf(nested); ok {
				if err := fn.Validate(plan); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *Concat) Evaluate(plan *model.Plan) (any, error) {
	var sb strings.Builder
	for _, item := range c.argList() {
		if nested, ok := item.(map[string]any); ok {
			if fn, ok := parseLeaf(nested); ok {
				v, err := fn.Evaluate(plan)
				if err != nil {
					return nil, err
				}
				sb.WriteString(fmt.Sprint(v))
				continue
			}
		}
		sb.WriteString(fmt.Sprint(item))
	}
	return sb.String(), nil
}
