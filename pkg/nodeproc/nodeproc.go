// Package nodeproc implements the Node Processor (spec §4.9): resolving
// each node template's effective type through any matching
// TypeImplementation, flattening that type, merging properties and
// interfaces, binding operations to plugins, and validating and merging
// each relationship instance. It also processes the blueprint's top-level
// relationship types, since the Node Processor is their only consumer.
package nodeproc

import (
	"fmt"

	"github.com/cloudify-tosca/blueprint/pkg/constants"
	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/implmatch"
	"github.com/cloudify-tosca/blueprint/pkg/model"
	"github.com/cloudify-tosca/blueprint/pkg/pluginbind"
	"github.com/cloudify-tosca/blueprint/pkg/pluginproc"
	"github.com/cloudify-tosca/blueprint/pkg/propmerge"
	"github.com/cloudify-tosca/blueprint/pkg/resolver"
	"github.com/cloudify-tosca/blueprint/pkg/typeresolve"
)

// Context carries the state the Node Processor shares across every node
// template in a blueprint: the combined document's raw node-type section,
// the flattened top-level relationship types, the processed plugins, and
// the type/relationship implementation pools, which are consumed as they
// match a node or relationship instance.
type Context struct {
	NodeTypes                   map[string]any
	Relationships               map[string]any
	Plugins                     map[string]any
	TypeImplementations         map[string]map[string]any
	RelationshipImplementations map[string]map[string]any
	NodeNames                   map[string]bool
	ResourceBase                string
	Prober                      resolver.Prober
}

// ProcessRelationshipTypes flattens every relationship type's derived_from
// chain (§4.7) and validates its source/target interface plugin mappings
// (§4.8, error code 19), returning the flattened, plan-ready map.
func ProcessRelationshipTypes(raw map[string]any, plugins map[string]any, resourceBase string, prober resolver.Prober) (map[string]any, error) {
	flattened := make(map[string]any, len(raw))
	for name := range raw {
		flat, err := typeresolve.FlattenType(name, raw, typeresolve.MergeRelationshipType)
		if err != nil {
			return nil, fmt.Errorf("relationship type %q: %w", name, err)
		}
		if err := validateRelationshipFields(flat, plugins, name, resourceBase, prober); err != nil {
			return nil, err
		}
		flattened[name] = flat
	}
	return flattened, nil
}

func validateRelationshipFields(rel map[string]any, plugins map[string]any, relName, resourceBase string, prober resolver.Prober) error {
	for _, field := range []string{constants.FieldSourceInterfaces, constants.FieldTargetInterfaces} {
		interfaces := asMap(rel[field])
		for interfaceName, ifaceRaw := range interfaces {
			iface := asMap(ifaceRaw)
			for opName, opContent := range iface {
				partialMsg := fmt.Sprintf(" in interface %s of relationship %s", interfaceName, relName)
				if _, err := pluginbind.ExtractOperation(plugins, opName, opContent, 19, partialMsg, resourceBase, prober, false); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ToModelRelationshipTypes converts the flattened relationship-type map
// produced by ProcessRelationshipTypes into the plan's output form.
func ToModelRelationshipTypes(flattened map[string]any) map[string]*model.RelationshipType {
	out := make(map[string]*model.RelationshipType, len(flattened))
	for name, raw := range flattened {
		rel := asMap(raw)
		derivedFrom, _ := rel[constants.FieldDerivedFrom].(string)
		out[name] = &model.RelationshipType{
			Name:             name,
			DerivedFrom:      derivedFrom,
			Properties:       asMap(rel[constants.FieldProperties]),
			SourceInterfaces: toInterfaceMap(asMap(rel[constants.FieldSourceInterfaces])),
			TargetInterfaces: toInterfaceMap(asMap(rel[constants.FieldTargetInterfaces])),
		}
	}
	return out
}

// ProcessNode implements §4.9 for a single node template.
func ProcessNode(name string, raw map[string]any, ctx *Context) (*model.Node, error) {
	declaredType, _ := raw["type"].(string)
	if _, ok := ctx.NodeTypes[declaredType]; !ok {
		return nil, errdef.NewLogicError(7, "could not locate node type: %s", declaredType).WithNodeRef(name)
	}

	nodeTypeName, overrideProps, err := resolveTypeImplementation(name, declaredType, ctx)
	if err != nil {
		return nil, err
	}

	flatType, err := typeresolve.FlattenType(nodeTypeName, ctx.NodeTypes, typeresolve.MergeNodeType)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", name, err)
	}

	templateInterfaces := asMap(raw[constants.FieldInterfaces])
	effectiveInterfaces := typeresolve.MergeInterfaces(asMap(flatType[constants.FieldInterfaces]), templateInterfaces)

	schema := asMap(flatType[constants.FieldProperties])
	values := asMap(raw[constants.FieldProperties])
	subject := fmt.Sprintf("node %s of type %s", name, nodeTypeName)
	properties, err := propmerge.MergeProperties(schema, values, overrideProps,
		"%s property %q is not part of the derived type properties schema",
		"%s does not provide a value for mandatory %q property which is part of its type schema",
		subject)
	if err != nil {
		return nil, err
	}
	properties[constants.RuntimePropertiesKey] = map[string]any{}

	node := &model.Node{
		Name:         name,
		ID:           name,
		DeclaredType: declaredType,
		Type:         nodeTypeName,
		Properties:   properties,
		Plugins:      map[string]*model.Plugin{},
		Instances:    instancesOf(raw),
	}

	operations, err := bindInterfaces(effectiveInterfaces, ctx.Plugins, node, 10,
		fmt.Sprintf(" in node %s of type %s", name, nodeTypeName), ctx.ResourceBase, ctx.Prober)
	if err != nil {
		return nil, err
	}
	node.Operations = operations

	relationships, err := processNodeRelationships(name, raw, ctx)
	if err != nil {
		return nil, err
	}
	node.Relationships = relationships

	return node, nil
}

func resolveTypeImplementation(nodeName, declaredType string, ctx *Context) (string, map[string]any, error) {
	candidateFunc := func(n string, impl map[string]any) bool {
		return impl["node_ref"] == nodeName
	}
	implName, impl, ok, err := implmatch.Find(ctx.TypeImplementations, candidateFunc, 103,
		fmt.Sprintf("Ambiguous implementation of node %s detected, more than one candidate", nodeName))
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return declaredType, map[string]any{}, nil
	}
	implType, _ := impl["type"].(string)
	if !typeresolve.IsDerivedFrom(implType, ctx.NodeTypes, declaredType) {
		return "", nil, errdef.NewLogicError(102,
			"type of implementation %s of node %s is not equal or derives from the node type %s",
			implName, nodeName, declaredType).WithImplementation(implName)
	}
	implmatch.Consume(ctx.TypeImplementations, implName)
	return implType, asMap(impl[constants.FieldProperties]), nil
}

func resolveRelationshipImplementation(sourceName, targetName, declaredType string, ctx *Context) (string, map[string]any, error) {
	candidateFunc := func(n string, impl map[string]any) bool {
		sourceRef, _ := impl["source_node_ref"].(string)
		targetRef, _ := impl["target_node_ref"].(string)
		implType, _ := impl["type"].(string)
		return sourceRef == sourceName && targetRef == targetName &&
			typeresolve.IsDerivedFrom(implType, ctx.Relationships, declaredType)
	}
	implName, impl, ok, err := implmatch.Find(ctx.RelationshipImplementations, candidateFunc, 108,
		fmt.Sprintf("Ambiguous implementation of relationship %s->%s detected, more than one candidate", sourceName, targetName))
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return declaredType, map[string]any{}, nil
	}
	implType, _ := impl["type"].(string)
	if !typeresolve.IsDerivedFrom(implType, ctx.Relationships, declaredType) {
		return "", nil, errdef.NewLogicError(109,
			"type of implementation %s of relationship %s->%s is not equal or derives from the relationship type %s",
			implName, sourceName, targetName, declaredType).WithImplementation(implName)
	}
	implmatch.Consume(ctx.RelationshipImplementations, implName)
	return implType, asMap(impl[constants.FieldProperties]), nil
}

func processNodeRelationships(name string, raw map[string]any, ctx *Context) ([]*model.RelationshipInstance, error) {
	rawRelationships, _ := raw[constants.SectionRelationships].([]any)
	if rawRelationships == nil {
		return nil, nil
	}

	instances := make([]*model.RelationshipInstance, 0, len(rawRelationships))
	for _, relEntryRaw := range rawRelationships {
		relEntry := asMap(relEntryRaw)
		declaredRelType, _ := relEntry["type"].(string)
		target, _ := relEntry["target"].(string)

		relTypeName, overrideProps, err := resolveRelationshipImplementation(name, target, declaredRelType, ctx)
		if err != nil {
			return nil, err
		}

		if target == "" || !ctx.NodeNames[target] {
			return nil, errdef.NewLogicError(25,
				"a relationship instance under node %s of type %s declares an undefined target node %s",
				name, relTypeName, target).WithSourceTarget(name, target)
		}
		if target == name {
			return nil, errdef.NewLogicError(23,
				"a relationship instance under node %s of type %s illegally declares the source node as the target node",
				name, relTypeName).WithSourceTarget(name, target)
		}

		relType, ok := ctx.Relationships[relTypeName]
		if !ok {
			return nil, errdef.NewLogicError(26,
				"a relationship instance under node %s declares an undefined relationship type %s",
				name, relTypeName).WithSourceTarget(name, target)
		}
		relTypeRaw := asMap(relType)

		instanceSourceIfaces := asMap(relEntry[constants.FieldSourceInterfaces])
		instanceTargetIfaces := asMap(relEntry[constants.FieldTargetInterfaces])
		mergedSource := typeresolve.MergeInterfaces(asMap(relTypeRaw[constants.FieldSourceInterfaces]), instanceSourceIfaces)
		mergedTarget := typeresolve.MergeInterfaces(asMap(relTypeRaw[constants.FieldTargetInterfaces]), instanceTargetIfaces)

		schema := asMap(relTypeRaw[constants.FieldProperties])
		values := asMap(relEntry[constants.FieldProperties])
		subject := fmt.Sprintf("node %s relationship of type %s", name, relTypeName)
		props, err := propmerge.MergeProperties(schema, values, overrideProps,
			"%s property %q is not part of the derived relationship type properties schema",
			"%s does not provide a value for mandatory %q property which is part of its relationship type schema",
			subject)
		if err != nil {
			return nil, err
		}

		instances = append(instances, &model.RelationshipInstance{
			Type:             relTypeName,
			TargetID:         target,
			SourceInterfaces: toInterfaceMap(mergedSource),
			TargetInterfaces: toInterfaceMap(mergedTarget),
			Properties:       props,
			State:            "reachable",
		})
	}
	return instances, nil
}

func bindInterfaces(interfaces map[string]any, plugins map[string]any, node *model.Node, errCode int, partialMsg, resourceBase string, prober resolver.Prober) (map[string]*model.Operation, error) {
	short := map[string]*pluginbind.OpStruct{}
	long := map[string]*pluginbind.OpStruct{}
	seenTwice := map[string]bool{}

	for interfaceName, ifaceRaw := range interfaces {
		iface := asMap(ifaceRaw)
		for opName, opContent := range iface {
			desc, err := pluginbind.ExtractOperation(plugins, opName, opContent, errCode, partialMsg, resourceBase, prober, false)
			if err != nil {
				return nil, err
			}
			if desc.Plugin != nil {
				pluginName := desc.OpStruct.Plugin
				node.Plugins[pluginName] = pluginproc.ToModelPlugin(pluginName, desc.Plugin)
			}
			if _, exists := short[opName]; exists {
				seenTwice[opName] = true
			}
			short[opName] = desc.OpStruct
			long[interfaceName+"."+opName] = desc.OpStruct
		}
	}

	operations := make(map[string]*model.Operation, len(short)+len(long))
	for opName, long := range long {
		operations[opName] = ToModelOperation(long)
	}
	for opName, opStruct := range short {
		if seenTwice[opName] {
			continue
		}
		operations[opName] = ToModelOperation(opStruct)
	}
	return operations, nil
}

func ToModelOperation(op *pluginbind.OpStruct) *model.Operation {
	return &model.Operation{Plugin: op.Plugin, Operation: op.Operation, Inputs: op.Payload}
}

func instancesOf(raw map[string]any) map[string]any {
	if v, ok := raw[constants.FieldInstances].(map[string]any); ok {
		return v
	}
	return map[string]any{"deploy": 1}
}

func toInterfaceMap(m map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any, len(m))
	for k, v := range m {
		out[k] = asMap(v)
	}
	return out
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
