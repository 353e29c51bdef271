// Package model defines the compiled deployment plan and the entities that
// make it up, per the blueprint language's data model: nodes, relationships,
// workflows, policies, groups, plugins and operations, all cross-referenced
// by name rather than by ownership.
package model

// Plan is the normalized, self-contained compilation output. It is the only
// structure a host application needs after a blueprint has compiled.
type Plan struct {
	Nodes                       []*Node                      `json:"nodes"`
	Relationships               map[string]*RelationshipType `json:"relationships"`
	Workflows                   map[string]*Operation        `json:"workflows"`
	PolicyTypes                 map[string]*PolicyType       `json:"policy_types"`
	PolicyTriggers              map[string]*PolicyTrigger    `json:"policy_triggers"`
	Groups                      map[string]*Group            `json:"groups"`
	Inputs                      map[string]any                `json:"inputs"`
	Outputs                     map[string]any                `json:"outputs"`
	DeploymentPluginsToInstall  []*Plugin                     `json:"deployment_plugins_to_install"`
	WorkflowPluginsToInstall    []*Plugin                     `json:"workflow_plugins_to_install"`
}

// NodeByID returns the node with the given id, or nil if none matches.
func (p *Plan) NodeByID(id string) *Node {
	for _, n := range p.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// NodeType is a node template's type: a property schema plus an interface
// map, inheriting from a parent type via DerivedFrom.
type NodeType struct {
	Name         string
	DerivedFrom  string
	Properties   map[string]any
	Interfaces   map[string]map[string]any
}

// RelationshipType describes an edge kind: a property schema plus source and
// target interface maps, inheriting from a parent via DerivedFrom.
type RelationshipType struct {
	Name              string
	DerivedFrom       string
	Properties        map[string]any
	SourceInterfaces  map[string]map[string]any
	TargetInterfaces  map[string]map[string]any
}

// Node is a processed node template: the unit the Node Processor and
// Post-processor enrich into its final, plan-ready form.
type Node struct {
	Name                       string
	ID                         string
	DeclaredType               string
	Type                       string
	Properties                 map[string]any
	Relationships              []*RelationshipInstance
	Operations                 map[string]*Operation
	Plugins                    map[string]*Plugin
	Instances                  map[string]any
	TypeHierarchy              []string
	HostID                     string
	PluginsToInstall           []*Plugin
	DeploymentPluginsToInstall []*Plugin
}

// RelationshipBase classifies a relationship instance by the well-known
// family its type derives from.
type RelationshipBase string

const (
	RelationshipBaseContained RelationshipBase = "contained"
	RelationshipBaseConnected RelationshipBase = "connected"
	RelationshipBaseDepends   RelationshipBase = "depends"
	RelationshipBaseUndefined RelationshipBase = "undefined"
)

// RelationshipInstance is one edge from a node template to a named target.
type RelationshipInstance struct {
	Type              string
	TargetID          string
	SourceInterfaces  map[string]map[string]any
	TargetInterfaces  map[string]map[string]any
	SourceOperations  map[string]*Operation
	TargetOperations  map[string]*Operation
	Properties        map[string]any
	TypeHierarchy     []string
	Base              RelationshipBase
	State             string
}

// PluginExecutor names the agent an operation executes under.
type PluginExecutor string

const (
	PluginExecutorHostAgent              PluginExecutor = "host_agent"
	PluginExecutorCentralDeploymentAgent PluginExecutor = "central_deployment_agent"
)

// Plugin is the implementation provider for one or more operations.
type Plugin struct {
	Name     string
	Executor PluginExecutor
	Source   string
	Install  bool
}

// Operation is a single bound plugin call: the plugin name, the bare
// operation name within it, and its input or parameter payload.
type Operation struct {
	Plugin    string
	Operation string
	Inputs    map[string]any
}

// TypeImplementation overrides a node template's effective type.
type TypeImplementation struct {
	Name       string
	Type       string
	NodeRef    string
	Properties map[string]any
}

// RelationshipImplementation overrides a relationship instance's effective type.
type RelationshipImplementation struct {
	Name          string
	Type          string
	SourceNodeRef string
	TargetNodeRef string
	Properties    map[string]any
}

// PolicyType declares the property schema of a policy kind.
type PolicyType struct {
	Name       string
	Properties map[string]any
}

// PolicyTrigger declares the parameter schema of a trigger kind.
type PolicyTrigger struct {
	Name       string
	Parameters map[string]any
}

// Policy is a group's use of a policy type, with its own trigger bindings.
type Policy struct {
	Type       string
	Properties map[string]any
	Triggers   map[string]*Trigger
}

// Trigger is a policy's use of a policy trigger type.
type Trigger struct {
	Type       string
	Parameters map[string]any
}

// Group is a named collection of node members with attached policies.
type Group struct {
	Name     string
	Members  []string
	Policies map[string]*Policy
}
