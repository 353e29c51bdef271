// Package propmerge implements the property merge law shared by the Node
// Processor (§4.9) and the Policy/Group Processor (§4.11): resolving a
// flattened type's properties schema against template values and
// implementation overrides (spec §8 invariant 8).
package propmerge

import "github.com/cloudify-tosca/blueprint/pkg/errdef"

// MergeProperties resolves schema S against instance values V and override
// values O: every key in S resolves to V[k] if present, else O[k] if
// present, else S[k].default. A key present in V or O but absent from S, or
// a mandatory (no-default) key absent from both V and O, is a LogicError.
func MergeProperties(schema, values, overrides map[string]any, notPartOfSchemaMsg, missingMandatoryMsg, subject string) (map[string]any, error) {
	for k := range values {
		if _, ok := schema[k]; !ok {
			return nil, errdef.NewLogicError(50, notPartOfSchemaMsg, subject, k)
		}
	}
	for k := range overrides {
		if _, ok := schema[k]; !ok {
			return nil, errdef.NewLogicError(50, notPartOfSchemaMsg, subject, k)
		}
	}

	result := make(map[string]any, len(schema))
	for k, schemaEntryRaw := range schema {
		if v, ok := values[k]; ok {
			result[k] = v
			continue
		}
		if o, ok := overrides[k]; ok {
			result[k] = o
			continue
		}
		if schemaEntry, ok := schemaEntryRaw.(map[string]any); ok {
			if def, hasDefault := schemaEntry["default"]; hasDefault {
				result[k] = def
				continue
			}
		}
		return nil, errdef.NewLogicError(50, missingMandatoryMsg, subject, k)
	}
	return result, nil
}
