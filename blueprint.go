// Package blueprint is the compiler front-end for a TOSCA-flavored
// infrastructure-as-code blueprint language. It exposes three entry points —
// Parse, ParseFromPath and ParseFromURL — each converging on the same
// internal pipeline: resolve the transitive import graph, merge and
// schema-validate the combined document, then lower it into a normalized
// deployment Plan (spec §6).
package blueprint

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cloudify-tosca/blueprint/pkg/constants"
	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/fileutil"
	"github.com/cloudify-tosca/blueprint/pkg/function"
	"github.com/cloudify-tosca/blueprint/pkg/importgraph"
	"github.com/cloudify-tosca/blueprint/pkg/loader"
	"github.com/cloudify-tosca/blueprint/pkg/logger"
	"github.com/cloudify-tosca/blueprint/pkg/merger"
	"github.com/cloudify-tosca/blueprint/pkg/model"
	"github.com/cloudify-tosca/blueprint/pkg/nodeproc"
	"github.com/cloudify-tosca/blueprint/pkg/policygroup"
	"github.com/cloudify-tosca/blueprint/pkg/postproc"
	"github.com/cloudify-tosca/blueprint/pkg/pluginproc"
	"github.com/cloudify-tosca/blueprint/pkg/resolver"
	"github.com/cloudify-tosca/blueprint/pkg/schema"
	"github.com/cloudify-tosca/blueprint/pkg/workflowproc"
)

var log = logger.New("blueprint:blueprint")

// Options carries every entry point's shared, optional configuration.
type Options struct {
	// AliasMappingDict is a logical->physical resource name rewrite table
	// supplied directly. Entries here win over AliasMappingURL on conflict.
	AliasMappingDict map[string]string
	// AliasMappingURL names a YAML document of alias entries to fetch and
	// union with AliasMappingDict.
	AliasMappingURL string
	// ResourcesBaseURL is the global resources base the Resource Resolver
	// falls back to when a name has no scheme, isn't a local path, and
	// can't be resolved against the current document's context.
	ResourcesBaseURL string
	// Fetcher overrides the default file/http(s) byte fetcher. URL schemes
	// beyond those two, and authenticated fetches, are an external
	// collaborator's concern (spec §1); a host application supplies its own
	// Fetcher for those.
	Fetcher loader.Fetcher
	// Prober overrides the default resource-existence probe used by the
	// Resource Resolver and the Plugin Binder's script-plugin fallback.
	Prober resolver.Prober
}

func (o Options) fetcher() loader.Fetcher {
	if o.Fetcher != nil {
		return o.Fetcher
	}
	return loader.NewDefaultFetcher()
}

func (o Options) prober() resolver.Prober {
	if o.Prober != nil {
		return o.Prober
	}
	return resolver.NewHTTPProber()
}

// Parse compiles an in-memory blueprint document with no location context.
// Imports are resolvable only if they carry an absolute URL, or if
// opts.ResourcesBaseURL is supplied.
func Parse(data []byte, opts Options) (*model.Plan, error) {
	return compile(data, "", opts)
}

// ParseFromPath reads and compiles a local blueprint file, setting its
// dsl_location to file://<abspath>.
func ParseFromPath(path string, opts Options) (*model.Plan, error) {
	abs, err := fileutil.ValidateAbsolutePath(path)
	if err != nil {
		abs, err = filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolving path %q: %w", path, err)
		}
	}
	data, err := opts.fetcher().Fetch("file://" + filepath.ToSlash(abs))
	if err != nil {
		return nil, errdef.NewLogicError(13, "Failed to read blueprint file %s: %v", path, err)
	}
	return compile(data, "file://"+filepath.ToSlash(abs), opts)
}

// ParseFromURL fetches and compiles a blueprint document, setting its
// dsl_location to url.
func ParseFromURL(url string, opts Options) (*model.Plan, error) {
	data, err := opts.fetcher().Fetch(url)
	if err != nil {
		return nil, errdef.NewLogicError(13, "Failed to fetch blueprint from %s: %v", url, err)
	}
	return compile(data, url, opts)
}

func compile(data []byte, dslLocation string, opts Options) (*model.Plan, error) {
	rootTree, err := loader.LoadYAML(data, dslLocation)
	if err != nil {
		return nil, err
	}

	alias, err := resolveAliasMap(opts, dslLocation)
	if err != nil {
		return nil, err
	}

	res := resolver.New(alias, opts.ResourcesBaseURL, opts.prober())
	fetcher := opts.fetcher()

	if importsRaw, ok := rootTree[constants.SectionImports]; ok {
		if err := schema.ValidateImportsSection(importsRaw); err != nil {
			return nil, err
		}
	}

	rootVersion, _ := rootTree[constants.SectionVersion].(string)

	imports, err := importgraph.BuildOrderedImports(rootTree, dslLocation, rootVersion, alias, res, fetcher)
	if err != nil {
		return nil, err
	}
	for _, doc := range imports {
		if importsRaw, ok := doc.Tree[constants.SectionImports]; ok {
			if err := schema.ValidateImportsSection(importsRaw); err != nil {
				return nil, err
			}
		}
	}

	combined, err := merger.Combine(rootTree, dslLocation, imports, res, fetcher)
	if err != nil {
		return nil, err
	}

	if err := schema.ValidateDocument(combined); err != nil {
		return nil, err
	}

	version, _ := combined[constants.SectionVersion].(string)
	if !constants.IsSupportedVersion(version) {
		return nil, errdef.NewLogicError(29, "Unsupported tosca_definitions_version: %s", version)
	}

	resourceBase := resourceBaseOf(dslLocation, opts.ResourcesBaseURL)
	log.Printf("compiling blueprint %s, resource base %s", dslLocation, resourceBase)

	return lower(combined, resourceBase, opts.prober())
}

// lower implements §4.7 through §4.12 over the merged, schema-valid
// document: type resolution, plugin binding, node processing,
// post-processing, policy/group processing and function validation.
func lower(combined map[string]any, resourceBase string, prober resolver.Prober) (*model.Plan, error) {
	pluginsRaw := asMap(combined[constants.SectionPlugins])
	plugins, err := pluginproc.ProcessPlugins(pluginsRaw)
	if err != nil {
		return nil, err
	}

	nodeTypesRaw := asMap(combined[constants.SectionNodeTypes])
	relationshipsRaw := asMap(combined[constants.SectionRelationships])

	flatRelationships, err := nodeproc.ProcessRelationshipTypes(relationshipsRaw, plugins, resourceBase, prober)
	if err != nil {
		return nil, err
	}

	typeImpls := toImplMap(asMap(combined[constants.SectionTypeImplementations]))
	relImpls := toImplMap(asMap(combined[constants.SectionRelationshipImplementations]))

	nodeTemplatesRaw := asMap(combined[constants.SectionNodeTemplates])
	nodeNames := make(map[string]bool, len(nodeTemplatesRaw))
	for name := range nodeTemplatesRaw {
		nodeNames[name] = true
	}

	ctx := &nodeproc.Context{
		NodeTypes:                   nodeTypesRaw,
		Relationships:               flatRelationships,
		Plugins:                     plugins,
		TypeImplementations:         typeImpls,
		RelationshipImplementations: relImpls,
		NodeNames:                   nodeNames,
		ResourceBase:                resourceBase,
		Prober:                      prober,
	}

	nodes := make([]*model.Node, 0, len(nodeTemplatesRaw))
	for _, name := range sortedKeys(nodeTemplatesRaw) {
		raw := asMap(nodeTemplatesRaw[name])
		node, err := nodeproc.ProcessNode(name, raw, ctx)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	if err := postproc.PostProcess(nodes, nodeTypesRaw, relationshipsRaw, plugins, typeImpls, relImpls, resourceBase, prober); err != nil {
		return nil, err
	}

	policyTypes := policygroup.ProcessPolicyTypes(asMap(combined[constants.SectionPolicyTypes]))
	policyTriggers := policygroup.ProcessPolicyTriggers(asMap(combined[constants.SectionPolicyTriggers]))
	groups, err := policygroup.ProcessGroups(asMap(combined[constants.SectionGroups]), policyTypes, policyTriggers, nodeNames)
	if err != nil {
		return nil, err
	}

	workflowsRaw := asMap(combined[constants.SectionWorkflows])
	workflows, err := workflowproc.ProcessWorkflows(workflowsRaw, plugins, resourceBase, prober)
	if err != nil {
		return nil, err
	}

	plan := &model.Plan{
		Nodes:                      nodes,
		Relationships:              nodeproc.ToModelRelationshipTypes(flatRelationships),
		Workflows:                  workflows,
		PolicyTypes:                policyTypes,
		PolicyTriggers:             policyTriggers,
		Groups:                     groups,
		Inputs:                     asMap(combined[constants.SectionInputs]),
		Outputs:                    asMap(combined[constants.SectionOutputs]),
		DeploymentPluginsToInstall: postproc.AggregateDeploymentPlugins(nodes),
		WorkflowPluginsToInstall:   postproc.AggregateWorkflowPlugins(workflows, plugins),
	}

	if err := function.Validate(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// resolveAliasMap unions opts.AliasMappingURL's entries with
// opts.AliasMappingDict, the dict overriding the URL on key conflict, per
// spec §6.
func resolveAliasMap(opts Options, dslLocation string) (resolver.AliasMap, error) {
	alias := resolver.AliasMap{}
	if opts.AliasMappingURL != "" {
		data, err := opts.fetcher().Fetch(opts.AliasMappingURL)
		if err != nil {
			return nil, errdef.NewLogicError(13, "Failed to fetch alias mapping from %s: %v", opts.AliasMappingURL, err)
		}
		tree, err := loader.LoadYAML(data, opts.AliasMappingURL)
		if err != nil {
			return nil, err
		}
		for k, v := range tree {
			if s, ok := v.(string); ok {
				alias[k] = s
			}
		}
	}
	for k, v := range opts.AliasMappingDict {
		alias[k] = v
	}
	return alias, nil
}

// resourceBaseOf picks the directory the Plugin Binder's script-plugin
// fallback resolves bare script paths against: the current document's own
// directory when one is known, else the global resources base.
func resourceBaseOf(dslLocation, resourcesBaseURL string) string {
	if dslLocation != "" {
		if idx := strings.LastIndex(dslLocation, "/"); idx >= 0 {
			return dslLocation[:idx]
		}
	}
	return strings.TrimSuffix(resourcesBaseURL, "/")
}

func toImplMap(raw map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any, len(raw))
	for name, v := range raw {
		out[name] = asMap(v)
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
