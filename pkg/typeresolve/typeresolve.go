// Package typeresolve implements the Type Resolver: recursively flattening
// derived_from chains for node types and relationship types, merging
// properties schemas and interfaces per the Interface Merge Rule (spec
// §4.7, §4.7.1).
package typeresolve

import (
	"fmt"

	"github.com/cloudify-tosca/blueprint/pkg/constants"
)

// MergeFunc merges an already-flattened parent type into a child type,
// producing the flattened child. The child wins on any overall conflict.
type MergeFunc func(parent, child map[string]any) map[string]any

// FlattenType recursively flattens typeName's derived_from chain within
// container (node_types or relationships), applying mergeFn at each step.
// A type with no derived_from is returned as a shallow-safe copy.
func FlattenType(typeName string, container map[string]any, mergeFn MergeFunc) (map[string]any, error) {
	return flatten(typeName, container, mergeFn, map[string]bool{})
}

func flatten(typeName string, container map[string]any, mergeFn MergeFunc, visiting map[string]bool) (map[string]any, error) {
	raw, ok := container[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", typeName)
	}
	typ, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("type %q is not a mapping", typeName)
	}

	parentNameRaw, hasParent := typ[constants.FieldDerivedFrom]
	if !hasParent {
		return copyMap(typ), nil
	}
	parentName, _ := parentNameRaw.(string)

	if visiting[typeName] {
		return nil, fmt.Errorf("cyclic derived_from chain detected at %q", typeName)
	}
	visiting[typeName] = true

	parent, err := flatten(parentName, container, mergeFn, visiting)
	if err != nil {
		return nil, err
	}
	delete(visiting, typeName)

	return mergeFn(parent, copyMap(typ)), nil
}

// MergeNodeType implements the node-type merge: child wins overall,
// properties schemas sub-merge (parent keys added unless overridden), and
// interfaces merge per the Interface Merge Rule.
func MergeNodeType(parent, child map[string]any) map[string]any {
	merged := copyMap(child)
	merged[constants.FieldProperties] = mergeSubDict(
		asMap(parent[constants.FieldProperties]), asMap(child[constants.FieldProperties]))
	merged[constants.FieldInterfaces] = MergeInterfaces(
		asMap(parent[constants.FieldInterfaces]), asMap(child[constants.FieldInterfaces]))
	return merged
}

// MergeRelationshipType implements the relationship-type merge: same as
// MergeNodeType, except both source_interfaces and target_interfaces merge.
func MergeRelationshipType(parent, child map[string]any) map[string]any {
	merged := copyMap(child)
	merged[constants.FieldProperties] = mergeSubDict(
		asMap(parent[constants.FieldProperties]), asMap(child[constants.FieldProperties]))
	merged[constants.FieldSourceInterfaces] = MergeInterfaces(
		asMap(parent[constants.FieldSourceInterfaces]), asMap(child[constants.FieldSourceInterfaces]))
	merged[constants.FieldTargetInterfaces] = MergeInterfaces(
		asMap(parent[constants.FieldTargetInterfaces]), asMap(child[constants.FieldTargetInterfaces]))
	return merged
}

// MergeInterfaces implements the Interface Merge Rule (§4.7.1): the result
// key set is keys(parent) ∪ keys(child); for a common interface, per-op the
// child wins but ops defined only in the parent are inherited. This same
// function serves all three merge sites the rule covers: type-on-type,
// template-on-type, and relationship-instance-on-type.
func MergeInterfaces(parent, child map[string]any) map[string]any {
	merged := make(map[string]any, len(parent)+len(child))
	for name, ops := range parent {
		merged[name] = ops
	}
	for name, childOps := range child {
		parentOpsRaw, hasParent := merged[name]
		if !hasParent {
			merged[name] = childOps
			continue
		}
		merged[name] = mergeSubDict(asMap(parentOpsRaw), asMap(childOps))
	}
	return merged
}

// mergeSubDict merges parent entries into child, child winning on key
// collision — the sub-dict merge used for both properties schemas and,
// within MergeInterfaces, per-interface operation maps.
func mergeSubDict(parent, child map[string]any) map[string]any {
	merged := make(map[string]any, len(parent)+len(child))
	for k, v := range parent {
		merged[k] = v
	}
	for k, v := range child {
		merged[k] = v
	}
	return merged
}

// IsDerivedFrom reports whether typeName is ancestorName or descends from it
// through the derived_from chain within types.
func IsDerivedFrom(typeName string, types map[string]any, ancestorName string) bool {
	if typeName == ancestorName {
		return true
	}
	typ, ok := types[typeName].(map[string]any)
	if !ok {
		return false
	}
	parentName, ok := typ[constants.FieldDerivedFrom].(string)
	if !ok {
		return false
	}
	return IsDerivedFrom(parentName, types, ancestorName)
}

// BuildFamilyDescendantSet returns the set of every type name in types that
// is ancestorName or descends from it.
func BuildFamilyDescendantSet(types map[string]any, ancestorName string) map[string]bool {
	set := make(map[string]bool)
	for typeName := range types {
		if IsDerivedFrom(typeName, types, ancestorName) {
			set[typeName] = true
		}
	}
	return set
}

// TypeHierarchy returns typeName's derived_from chain, root-first with
// typeName last.
func TypeHierarchy(typeName string, types map[string]any) []string {
	typ, ok := types[typeName].(map[string]any)
	if !ok {
		return []string{typeName}
	}
	parentName, ok := typ[constants.FieldDerivedFrom].(string)
	if !ok {
		return []string{typeName}
	}
	return append(TypeHierarchy(parentName, types), typeName)
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
