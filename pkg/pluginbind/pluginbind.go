// Package pluginbind implements the Plugin Binder (spec §4.8): resolving an
// operation or workflow's string/mapping-spec mapping to a concrete plugin,
// via longest dotted-prefix plugin-name matching with a script-plugin
// fallback for bare script paths.
package pluginbind

import (
	"fmt"
	"strings"

	"github.com/cloudify-tosca/blueprint/pkg/constants"
	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/resolver"
)

// OpStruct is the bound, executable form of an operation or workflow mapping.
type OpStruct struct {
	Plugin       string
	Operation    string
	Payload      map[string]any
	PayloadField string
}

// OpDescriptor pairs a bound OpStruct with the plugin definition it resolved to.
type OpDescriptor struct {
	Name     string
	Plugin   map[string]any
	OpStruct *OpStruct
}

func kindLabel(isWorkflow bool) string {
	if isWorkflow {
		return "workflow"
	}
	return "operation"
}

// ExtractOperation implements the three-way binding order: longest
// dotted-prefix plugin-name match; then, if none matched and the mapping
// names an existing resource under resourceBase, a script-plugin fallback;
// otherwise a hard LogicError with errCode.
func ExtractOperation(
	plugins map[string]any,
	operationName string,
	operationContent any,
	errCode int,
	partialErrorMessage string,
	resourceBase string,
	prober resolver.Prober,
	isWorkflow bool,
) (*OpDescriptor, error) {
	payloadField := "inputs"
	mappingField := constants.FieldImplementation
	if isWorkflow {
		payloadField = constants.FieldParameters
		mappingField = constants.FieldMapping
	}

	var operationMapping string
	var payload map[string]any

	switch v := operationContent.(type) {
	case string:
		operationMapping = v
	case map[string]any:
		if m, ok := v[mappingField].(string); ok {
			operationMapping = m
		}
		if p, ok := v[payloadField].(map[string]any); ok {
			payload = p
		}
	}

	if operationMapping == "" {
		return &OpDescriptor{
			Name: operationName,
			OpStruct: &OpStruct{
				PayloadField: payloadField,
				Payload:      map[string]any{},
			},
		}, nil
	}

	if desc := matchByPrefix(plugins, operationName, operationMapping, payload, payloadField); desc != nil {
		return desc, nil
	}

	if resourceBase != "" && prober != nil && prober.Exists(resourceBase+"/"+operationMapping) {
		return scriptFallback(plugins, operationName, operationMapping, payload, payloadField, isWorkflow)
	}

	kind := kindLabel(isWorkflow)
	baseMsg := fmt.Sprintf("Could not extract plugin from %s mapping %s, which is declared for %s %q.",
		kind, operationMapping, kind, operationName)
	return nil, errdef.NewLogicError(errCode, "%s%s", baseMsg, partialErrorMessage)
}

func matchByPrefix(plugins map[string]any, operationName, operationMapping string, payload map[string]any, payloadField string) *OpDescriptor {
	longestPrefix := 0
	longestPluginName := ""
	for pluginName := range plugins {
		prefix := pluginName + "."
		if strings.HasPrefix(operationMapping, prefix) && len(pluginName) > longestPrefix {
			longestPrefix = len(pluginName)
			longestPluginName = pluginName
		}
	}
	if longestPluginName == "" {
		return nil
	}
	pluginDef, _ := plugins[longestPluginName].(map[string]any)
	return &OpDescriptor{
		Name:   operationName,
		Plugin: pluginDef,
		OpStruct: &OpStruct{
			Plugin:       longestPluginName,
			Operation:    operationMapping[longestPrefix+1:],
			Payload:      copyPayload(payload),
			PayloadField: payloadField,
		},
	}
}

func scriptFallback(plugins map[string]any, operationName, operationMapping string, payload map[string]any, payloadField string, isWorkflow bool) (*OpDescriptor, error) {
	kind := kindLabel(isWorkflow)
	payload = copyPayload(payload)

	if _, has := payload[constants.FieldScriptPath]; has {
		return nil, errdef.NewLogicError(60, "Cannot define %s property in %s for %s %q",
			constants.FieldScriptPath, operationMapping, kind, operationName)
	}

	scriptPath := operationMapping
	if isWorkflow {
		operationMapping = constants.ScriptExecuteWorkflowTask
		payload[constants.FieldScriptPath] = map[string]any{
			"default":     scriptPath,
			"description": "Workflow script executed by the script plugin",
		}
	} else {
		operationMapping = constants.ScriptRunTask
		payload[constants.FieldScriptPath] = scriptPath
	}

	scriptPlugin, hasScriptPlugin := plugins[constants.ScriptPluginName].(map[string]any)
	if !hasScriptPlugin {
		return nil, errdef.NewLogicError(61,
			"Script plugin is not defined but it is required for mapping: %s of %s %q",
			operationMapping, kind, operationName)
	}

	return &OpDescriptor{
		Name:   operationName,
		Plugin: scriptPlugin,
		OpStruct: &OpStruct{
			Plugin:       constants.ScriptPluginName,
			Operation:    operationMapping,
			Payload:      payload,
			PayloadField: payloadField,
		},
	}, nil
}

func copyPayload(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
