// Package policygroup implements the Policy/Group Processor (spec §4.11):
// filling in policy-type and policy-trigger property/parameter schema
// defaults, then validating and merging each group's policies and triggers
// against those schemas.
package policygroup

import (
	"fmt"

	"github.com/cloudify-tosca/blueprint/pkg/constants"
	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/model"
	"github.com/cloudify-tosca/blueprint/pkg/propmerge"
)

// ProcessPolicyTypes converts the combined document's policy_types section,
// defaulting a missing properties schema to the empty schema.
func ProcessPolicyTypes(raw map[string]any) map[string]*model.PolicyType {
	out := make(map[string]*model.PolicyType, len(raw))
	for name, v := range raw {
		def := asMap(v)
		out[name] = &model.PolicyType{Name: name, Properties: asMap(def[constants.FieldProperties])}
	}
	return out
}

// ProcessPolicyTriggers converts the combined document's policy_triggers
// section, defaulting a missing parameters schema to the empty schema.
func ProcessPolicyTriggers(raw map[string]any) map[string]*model.PolicyTrigger {
	out := make(map[string]*model.PolicyTrigger, len(raw))
	for name, v := range raw {
		def := asMap(v)
		out[name] = &model.PolicyTrigger{Name: name, Parameters: asMap(def[constants.FieldParameters])}
	}
	return out
}

// ProcessGroups validates every group's membership and policy/trigger type
// references, and property-merges each policy and trigger against its type
// schema.
func ProcessGroups(raw map[string]any, policyTypes map[string]*model.PolicyType, policyTriggers map[string]*model.PolicyTrigger, nodeNames map[string]bool) (map[string]*model.Group, error) {
	groups := make(map[string]*model.Group, len(raw))
	for groupName, v := range raw {
		def := asMap(v)
		group, err := processGroup(groupName, def, policyTypes, policyTriggers, nodeNames)
		if err != nil {
			return nil, err
		}
		groups[groupName] = group
	}
	return groups, nil
}

func processGroup(groupName string, def map[string]any, policyTypes map[string]*model.PolicyType, policyTriggers map[string]*model.PolicyTrigger, nodeNames map[string]bool) (*model.Group, error) {
	members := toStringSlice(def["members"])
	for _, member := range members {
		if !nodeNames[member] {
			return nil, errdef.NewLogicError(40,
				"member %q of group %q does not match any defined node", member, groupName)
		}
	}

	policies := map[string]*model.Policy{}
	policiesRaw := asMap(def["policies"])
	for policyName, policyRaw := range policiesRaw {
		policyDef := asMap(policyRaw)
		policyType, ok := policyTypes[asString(policyDef["type"])]
		if !ok {
			return nil, errdef.NewLogicError(41,
				"policy %q of group %q references a non existent policy type %q",
				policyName, groupName, asString(policyDef["type"]))
		}

		subject := fmt.Sprintf("group %q, policy %q", groupName, policyName)
		mergedProps, err := propmerge.MergeProperties(policyType.Properties, asMap(policyDef[constants.FieldProperties]), map[string]any{},
			"%s property %q is not part of the policy type properties schema",
			"%s does not provide a value for mandatory %q property which is part of its policy type schema",
			subject)
		if err != nil {
			return nil, err
		}

		triggers, err := processTriggers(groupName, policyName, asMap(policyDef["triggers"]), policyTriggers)
		if err != nil {
			return nil, err
		}

		policies[policyName] = &model.Policy{
			Type:       asString(policyDef["type"]),
			Properties: mergedProps,
			Triggers:   triggers,
		}
	}

	return &model.Group{Name: groupName, Members: members, Policies: policies}, nil
}

func processTriggers(groupName, policyName string, raw map[string]any, policyTriggers map[string]*model.PolicyTrigger) (map[string]*model.Trigger, error) {
	triggers := map[string]*model.Trigger{}
	for triggerName, triggerRaw := range raw {
		triggerDef := asMap(triggerRaw)
		triggerType, ok := policyTriggers[asString(triggerDef["type"])]
		if !ok {
			return nil, errdef.NewLogicError(42,
				"trigger %q of policy %q of group %q references a non existent policy trigger %q",
				triggerName, policyName, groupName, asString(triggerDef["type"]))
		}

		subject := fmt.Sprintf("group %q, policy %q trigger %q", groupName, policyName, triggerName)
		mergedParams, err := propmerge.MergeProperties(triggerType.Parameters, asMap(triggerDef[constants.FieldParameters]), map[string]any{},
			"%s property %q is not part of the policy trigger parameters schema",
			"%s does not provide a value for mandatory %q property which is part of its policy trigger schema",
			subject)
		if err != nil {
			return nil, err
		}

		triggers[triggerName] = &model.Trigger{Type: asString(triggerDef["type"]), Parameters: mergedParams}
	}
	return triggers, nil
}

func toStringSlice(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
