// Package constants holds the well-known names, version set, and structured
// field keys the blueprint language fixes by convention: the host type, the
// three base relationship families, the supported DSL version set, and the
// section/field names used throughout the pipeline.
package constants

// SupportedVersions lists every tosca_definitions_version this compiler accepts.
var SupportedVersions = []string{"cloudify_dsl_1_0"}

// IsSupportedVersion reports whether v is a recognized DSL version.
func IsSupportedVersion(v string) bool {
	for _, sv := range SupportedVersions {
		if sv == v {
			return true
		}
	}
	return false
}

// Well-known type names that must resolve unambiguously in the combined namespace.
const (
	HostType                  = "cloudify.types.host"
	DependsOnRelType          = "cloudify.relationships.depends_on"
	ContainedInRelType        = "cloudify.relationships.contained_in"
	ConnectedToRelType        = "cloudify.relationships.connected_to"
	ScriptPluginName          = "script"
	ScriptRunTask             = "script.tasks.run"
	ScriptExecuteWorkflowTask = "script.tasks.execute_workflow"
)

// Top-level document section keys.
const (
	SectionVersion                     = "tosca_definitions_version"
	SectionImports                     = "imports"
	SectionNodeTemplates               = "node_templates"
	SectionNodeTypes                   = "node_types"
	SectionRelationships               = "relationships"
	SectionPlugins                     = "plugins"
	SectionWorkflows                   = "workflows"
	SectionInputs                      = "inputs"
	SectionOutputs                     = "outputs"
	SectionTypeImplementations         = "type_implementations"
	SectionRelationshipImplementations = "relationship_implementations"
	SectionPolicyTypes                 = "policy_types"
	SectionPolicyTriggers              = "policy_triggers"
	SectionGroups                      = "groups"
)

// MergeNoOverrideSections are sections that merge key-by-key across imports
// with a hard conflict error on any duplicate key, per the Merger's union
// policy (spec.md §4.5, confirmed against original_source/dsl_parser/parser.py).
var MergeNoOverrideSections = map[string]bool{
	"interfaces":                       true,
	SectionNodeTypes:                   true,
	SectionPlugins:                     true,
	SectionWorkflows:                   true,
	SectionTypeImplementations:         true,
	SectionRelationships:               true,
	SectionRelationshipImplementations: true,
	SectionPolicyTypes:                 true,
	SectionGroups:                      true,
	SectionPolicyTriggers:              true,
}

// Node/operation field names.
const (
	FieldProperties       = "properties"
	FieldParameters       = "parameters"
	FieldInterfaces       = "interfaces"
	FieldSourceInterfaces = "source_interfaces"
	FieldTargetInterfaces = "target_interfaces"
	FieldDerivedFrom      = "derived_from"
	FieldImplementation   = "implementation"
	FieldMapping          = "mapping"
	FieldInputs           = "inputs"
	FieldScriptPath       = "script_path"
	FieldInstances        = "instances"
	RuntimePropertiesKey  = "cloudify_runtime"
)

// PluginExecutor values.
const (
	PluginExecutorHostAgent              = "host_agent"
	PluginExecutorCentralDeploymentAgent = "central_deployment_agent"
)

// URLSchemes lists the schemes the Resource Resolver accepts literally.
var URLSchemes = []string{"http:", "https:", "file:", "ftp:"}

// FunctionPathSeparator joins property-path components when building a
// get_property cycle-detection identity string.
const FunctionPathSeparator = "."
