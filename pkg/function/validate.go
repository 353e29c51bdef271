package function

import "github.com/cloudify-tosca/blueprint/pkg/model"

// Validate scans every property-bearing section of plan for intrinsic
// function literals, validates each one found, and statically resolves
// every get_property call, detecting circular references. It does not
// mutate plan: spec §4.12 replaces each function leaf with an opaque
// instance and restores it afterwards so Evaluate can see already-parsed
// neighbors, but since only get_property needs evaluation here (and it
// re-parses nested literals itself, see resolveGetProperty), scanning
// read-only and leaving every leaf in its raw form gives the same observable
// result (validated functions, resolved get_property values, cycles caught)
// without a replace/restore pass — the plan is never left holding function
// instances, so invariant 7 (no function instances survive) holds by
// construction.
func Validate(plan *model.Plan) error {
	var getProperties []*GetProperty

	visit := func(v any) error {
		fn, ok := parseLeaf(v)
		if !ok {
			return nil
		}
		if err := fn.Validate(plan); err != nil {
			return err
		}
		if gp, ok := fn.(*GetProperty); ok {
			getProperties = append(getProperties, gp)
		}
		return nil
	}

	for _, node := range plan.Nodes {
		if err := scan(node.Properties, visit); err != nil {
			return err
		}
		for _, rel := range node.Relationships {
			if err := scan(rel.Properties, visit); err != nil {
				return err
			}
		}
	}
	for _, group := range plan.Groups {
		for _, policy := range group.Policies {
			if err := scan(policy.Properties, visit); err != nil {
				return err
			}
			for _, trigger := range policy.Triggers {
				if err := scan(trigger.Parameters, visit); err != nil {
					return err
				}
			}
		}
	}
	if err := scan(plan.Outputs, visit); err != nil {
		return err
	}

	for _, gp := range getProperties {
		if _, err := gp.Evaluate(plan); err != nil {
			return err
		}
	}
	return nil
}

// scan recursively walks value (a property tree of maps/slices/scalars),
// invoking handler on every mapping it encounters — both the container a
// scalar lives in and, crucially, every nested mapping itself, since a
// function literal is a mapping in its own right. Grounded on
// original_source/dsl_parser/utils.py's scan_properties recursive shape.
func scan(value any, handler func(any) error) error {
	switch v := value.(type) {
	case map[string]any:
		if err := handler(v); err != nil {
			return err
		}
		for _, child := range v {
			if err := scan(child, handler); err != nil {
				return err
			}
		}
	case []any:
		for _, item := range v {
			if err := scan(item, handler); err != nil {
				return err
			}
		}
	}
	return nil
}
