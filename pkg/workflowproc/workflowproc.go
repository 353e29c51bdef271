// Package workflowproc binds the combined document's top-level workflows
// section to plugins (spec §4.8's workflow-shaped mapping: "mapping"/
// "parameters" instead of an operation's "implementation"/"inputs"), the one
// place in the pipeline the Plugin Binder runs with isWorkflow=true.
package workflowproc

import (
	"fmt"

	"github.com/cloudify-tosca/blueprint/pkg/model"
	"github.com/cloudify-tosca/blueprint/pkg/pluginbind"
	"github.com/cloudify-tosca/blueprint/pkg/resolver"
)

// ProcessWorkflows binds every entry in the combined document's workflows
// section to a plugin via the longest-prefix/script-plugin rule.
func ProcessWorkflows(raw map[string]any, plugins map[string]any, resourceBase string, prober resolver.Prober) (map[string]*model.Operation, error) {
	workflows := make(map[string]*model.Operation, len(raw))
	for name, content := range raw {
		partialMsg := fmt.Sprintf(" in workflow %q", name)
		desc, err := pluginbind.ExtractOperation(plugins, name, content, 21, partialMsg, resourceBase, prober, true)
		if err != nil {
			return nil, err
		}
		workflows[name] = &model.Operation{
			Plugin:    desc.OpStruct.Plugin,
			Operation: desc.OpStruct.Operation,
			Inputs:    desc.OpStruct.Payload,
		}
	}
	return workflows, nil
}
