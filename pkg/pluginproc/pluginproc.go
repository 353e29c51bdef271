// Package pluginproc processes a blueprint's plugins section: validating
// the executor value and filling in the install/source defaults every
// plugin definition carries once processed (grounded on
// original_source/dsl_parser/parser.py's _process_plugin).
package pluginproc

import (
	"github.com/cloudify-tosca/blueprint/pkg/constants"
	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/model"
)

// ProcessPlugins validates and augments every entry in the combined
// document's plugins section, returning the processed map keyed by plugin
// name — each value still a generic map so it can feed pluginbind's
// longest-prefix matching directly.
func ProcessPlugins(raw map[string]any) (map[string]any, error) {
	processed := make(map[string]any, len(raw))
	for name, v := range raw {
		def, _ := v.(map[string]any)
		pp, err := processPlugin(name, def)
		if err != nil {
			return nil, err
		}
		processed[name] = pp
	}
	return processed, nil
}

func processPlugin(name string, def map[string]any) (map[string]any, error) {
	executor, _ := def["executor"].(string)
	if executor != constants.PluginExecutorHostAgent && executor != constants.PluginExecutorCentralDeploymentAgent {
		return nil, errdef.NewLogicError(18,
			"plugin %s has an illegal executor value %q; value must be either %s or %s",
			name, executor, constants.PluginExecutorCentralDeploymentAgent, constants.PluginExecutorHostAgent)
	}

	source, _ := def["source"].(string)

	install := true
	if v, ok := def["install"].(bool); ok {
		install = v
	}

	if install && source == "" {
		return nil, errdef.NewLogicError(50,
			"plugin %s needs to be installed, but does not declare a source property", name)
	}

	out := make(map[string]any, len(def)+3)
	for k, v := range def {
		out[k] = v
	}
	out["name"] = name
	out["install"] = install
	out["source"] = source
	return out, nil
}

// ToModelPlugin converts a processed plugin map (as produced by
// ProcessPlugins, or returned as an OpDescriptor.Plugin) into its model form.
func ToModelPlugin(name string, raw map[string]any) *model.Plugin {
	if raw == nil {
		return nil
	}
	executor, _ := raw["executor"].(string)
	source, _ := raw["source"].(string)
	install := true
	if v, ok := raw["install"].(bool); ok {
		install = v
	}
	return &model.Plugin{
		Name:     name,
		Executor: model.PluginExecutor(executor),
		Source:   source,
		Install:  install,
	}
}
