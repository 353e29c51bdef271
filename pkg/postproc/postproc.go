// Package postproc implements the Post-processor (spec §4.10): computing
// each relationship's base family and each type's hierarchy, binding
// relationship source/target interfaces to plugin operations (which needs
// every node to already exist), deriving host_id by climbing contained_in
// edges, and aggregating plugins_to_install/deployment_plugins_to_install
// at both the node and plan level.
package postproc

import (
	"fmt"
	"strings"

	"github.com/cloudify-tosca/blueprint/pkg/constants"
	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/model"
	"github.com/cloudify-tosca/blueprint/pkg/nodeproc"
	"github.com/cloudify-tosca/blueprint/pkg/pluginbind"
	"github.com/cloudify-tosca/blueprint/pkg/pluginproc"
	"github.com/cloudify-tosca/blueprint/pkg/resolver"
	"github.com/cloudify-tosca/blueprint/pkg/typeresolve"
)

// PostProcess mutates nodes in place with every derivation §4.10 specifies,
// and validates the cross-entity invariants it enforces (unique contained-in
// base, agent plugins confined to hosts, every implementation consumed).
func PostProcess(
	nodes []*model.Node,
	nodeTypesRaw, relationshipsRaw map[string]any,
	plugins map[string]any,
	typeImpls, relImpls map[string]map[string]any,
	resourceBase string,
	prober resolver.Prober,
) error {
	nodeByID := make(map[string]*model.Node, len(nodes))
	for _, n := range nodes {
		nodeByID[n.ID] = n
	}

	dependsOnTypes := typeresolve.BuildFamilyDescendantSet(relationshipsRaw, constants.DependsOnRelType)
	containedInTypes := typeresolve.BuildFamilyDescendantSet(relationshipsRaw, constants.ContainedInRelType)
	connectedToTypes := typeresolve.BuildFamilyDescendantSet(relationshipsRaw, constants.ConnectedToRelType)

	for _, node := range nodes {
		containedCount := 0
		var containedTypes []string
		for _, rel := range node.Relationships {
			rel.Base = classifyBase(rel.Type, containedInTypes, connectedToTypes, dependsOnTypes)
			if rel.Base == model.RelationshipBaseContained {
				containedCount++
				containedTypes = append(containedTypes, rel.Type)
			}
			rel.TypeHierarchy = typeresolve.TypeHierarchy(rel.Type, relationshipsRaw)
		}
		if containedCount > 1 {
			return errdef.NewLogicError(112,
				"node %s has more than one relationship that is derived from %s relationship. Found: %v",
				node.ID, constants.ContainedInRelType, containedTypes).
				WithNodeRef(node.ID).WithRelationshipTypes(containedTypes)
		}
		node.TypeHierarchy = typeresolve.TypeHierarchy(node.Type, nodeTypesRaw)
	}

	if err := bindRelationshipOperations(nodes, nodeByID, plugins, resourceBase, prober); err != nil {
		return err
	}

	hostTypes := typeresolve.BuildFamilyDescendantSet(nodeTypesRaw, constants.HostType)
	for _, node := range nodes {
		hostID, err := extractHostID(node, nodeByID, hostTypes, containedInTypes, nil)
		if err != nil {
			return err
		}
		if hostID != "" {
			node.HostID = hostID
		}
	}

	assignPluginsToInstall(nodes, hostTypes)
	assignDeploymentPluginsToInstall(nodes)

	if err := validateAgentPluginsOnHostNodes(nodes); err != nil {
		return err
	}
	if err := validateImplementationsConsumed(typeImpls, relImpls); err != nil {
		return err
	}
	return nil
}

func classifyBase(relType string, containedIn, connectedTo, dependsOn map[string]bool) model.RelationshipBase {
	switch {
	case containedIn[relType]:
		return model.RelationshipBaseContained
	case connectedTo[relType]:
		return model.RelationshipBaseConnected
	case dependsOn[relType]:
		return model.RelationshipBaseDepends
	default:
		return model.RelationshipBaseUndefined
	}
}

// extractHostID climbs contained_in edges from node looking for a node whose
// type derives from the well-known host type. visited holds the chain of
// node ids already climbed in this call, so a containment cycle (two or more
// nodes each contained within the next, looping back on itself) is reported
// as a LogicError instead of recursing forever.
func extractHostID(node *model.Node, nodeByID map[string]*model.Node, hostTypes, containedInTypes map[string]bool, visited []string) (string, error) {
	if hostTypes[node.Type] {
		return node.ID, nil
	}
	for _, id := range visited {
		if id == node.ID {
			chain := append(append([]string(nil), visited...), node.ID)
			return "", errdef.NewLogicError(113,
				"node %s is involved in a %s relationship cycle: %s",
				node.ID, constants.ContainedInRelType, strings.Join(chain, " -> ")).
				WithNodeRef(node.ID)
		}
	}
	visited = append(visited, node.ID)
	for _, rel := range node.Relationships {
		if !containedInTypes[rel.Type] {
			continue
		}
		target := nodeByID[rel.TargetID]
		if target == nil {
			continue
		}
		return extractHostID(target, nodeByID, hostTypes, containedInTypes, visited)
	}
	return "", nil
}

func assignPluginsToInstall(nodes []*model.Node, hostTypes map[string]bool) {
	for _, hostNode := range nodes {
		if !hostTypes[hostNode.Type] {
			continue
		}
		seen := map[string]bool{}
		var toInstall []*model.Plugin
		for _, n := range nodes {
			if n.HostID != hostNode.ID {
				continue
			}
			for name, p := range n.Plugins {
				if p.Executor == model.PluginExecutorHostAgent && !seen[name] {
					seen[name] = true
					toInstall = append(toInstall, p)
				}
			}
		}
		hostNode.PluginsToInstall = toInstall
	}
}

func assignDeploymentPluginsToInstall(nodes []*model.Node) {
	for _, n := range nodes {
		var depPlugins []*model.Plugin
		for _, p := range n.Plugins {
			if p.Executor == model.PluginExecutorCentralDeploymentAgent {
				depPlugins = append(depPlugins, p)
			}
		}
		n.DeploymentPluginsToInstall = depPlugins
	}
}

func validateAgentPluginsOnHostNodes(nodes []*model.Node) error {
	for _, n := range nodes {
		if n.HostID != "" {
			continue
		}
		for _, p := range n.Plugins {
			if p.Executor == model.PluginExecutorHostAgent {
				return errdef.NewLogicError(24,
					"node %s has no relationship which makes it contained within a host and it has a plugin[%s] with '%s' as an executor. These types of plugins must be installed on a host",
					n.ID, p.Name, constants.PluginExecutorHostAgent).WithNodeRef(n.ID)
			}
		}
	}
	return nil
}

func validateImplementationsConsumed(typeImpls, relImpls map[string]map[string]any) error {
	for implName, impl := range typeImpls {
		nodeRef, _ := impl["node_ref"].(string)
		return errdef.NewLogicError(110,
			"'%s' type implementation has a reference to a node which does not exist named '%s'",
			implName, nodeRef).WithImplementation(implName).WithNodeRef(nodeRef)
	}
	for implName, impl := range relImpls {
		sourceRef, _ := impl["source_node_ref"].(string)
		targetRef, _ := impl["target_node_ref"].(string)
		return errdef.NewLogicError(111,
			"'%s' relationship implementation between '%s->%s' is not mapped to any matching node relationship",
			implName, sourceRef, targetRef).WithImplementation(implName).WithSourceTarget(sourceRef, targetRef)
	}
	return nil
}

func bindRelationshipOperations(nodes []*model.Node, nodeByID map[string]*model.Node, plugins map[string]any, resourceBase string, prober resolver.Prober) error {
	for _, node := range nodes {
		for _, rel := range node.Relationships {
			partialMsg := fmt.Sprintf(" in relationship of type %s in node %s", rel.Type, node.ID)

			sourceOps, err := bindInterfaceOperations(rel.SourceInterfaces, plugins, node, 19, partialMsg, resourceBase, prober)
			if err != nil {
				return err
			}
			rel.SourceOperations = sourceOps

			targetNode := nodeByID[rel.TargetID]
			targetOps, err := bindInterfaceOperations(rel.TargetInterfaces, plugins, targetNode, 19, partialMsg, resourceBase, prober)
			if err != nil {
				return err
			}
			rel.TargetOperations = targetOps
		}
	}
	return nil
}

func bindInterfaceOperations(interfaces map[string]map[string]any, plugins map[string]any, pluginOwner *model.Node, errCode int, partialMsg, resourceBase string, prober resolver.Prober) (map[string]*model.Operation, error) {
	operations := map[string]*model.Operation{}
	for interfaceName, iface := range interfaces {
		for opName, opContent := range iface {
			desc, err := pluginbind.ExtractOperation(plugins, opName, opContent, errCode, partialMsg, resourceBase, prober, false)
			if err != nil {
				return nil, err
			}
			if desc.Plugin != nil && pluginOwner != nil {
				pluginName := desc.OpStruct.Plugin
				pluginOwner.Plugins[pluginName] = pluginproc.ToModelPlugin(pluginName, desc.Plugin)
			}
			op := nodeproc.ToModelOperation(desc.OpStruct)
			operations[opName] = op
			operations[interfaceName+"."+opName] = op
		}
	}
	return operations, nil
}

// AggregateDeploymentPlugins computes the plan-level deployment_plugins_to_install:
// the union of every node's DeploymentPluginsToInstall, deduplicated by name.
func AggregateDeploymentPlugins(nodes []*model.Node) []*model.Plugin {
	seen := map[string]bool{}
	var result []*model.Plugin
	for _, n := range nodes {
		for _, p := range n.DeploymentPluginsToInstall {
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			result = append(result, p)
		}
	}
	return result
}

// AggregateWorkflowPlugins computes the plan-level workflow_plugins_to_install:
// the union of plugins referenced by the plan's workflows, deduplicated by name.
func AggregateWorkflowPlugins(workflows map[string]*model.Operation, plugins map[string]any) []*model.Plugin {
	seen := map[string]bool{}
	var result []*model.Plugin
	for _, op := range workflows {
		if op.Plugin == "" || seen[op.Plugin] {
			continue
		}
		raw, _ := plugins[op.Plugin].(map[string]any)
		if raw == nil {
			continue
		}
		seen[op.Plugin] = true
		result = append(result, pluginproc.ToModelPlugin(op.Plugin, raw))
	}
	return result
}
