package policygroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/model"
)

func TestProcessPolicyTypesDefaultsEmptyProperties(t *testing.T) {
	out := ProcessPolicyTypes(map[string]any{
		"scaling": map[string]any{},
	})
	require.Contains(t, out, "scaling")
	assert.Empty(t, out["scaling"].Properties)
}

func TestProcessGroupsRejectsUnknownMember(t *testing.T) {
	raw := map[string]any{
		"web_group": map[string]any{"members": []any{"nope"}},
	}
	_, err := ProcessGroups(raw, nil, nil, map[string]bool{"webserver": true})
	require.Error(t, err)
	le, ok := err.(*errdef.LogicError)
	require.True(t, ok)
	assert.Equal(t, 40, le.Code)
}

func TestProcessGroupsRejectsUnknownPolicyType(t *testing.T) {
	raw := map[string]any{
		"web_group": map[string]any{
			"members": []any{"webserver"},
			"policies": map[string]any{
				"auto_scale": map[string]any{"type": "missing_type"},
			},
		},
	}
	_, err := ProcessGroups(raw, map[string]*model.PolicyType{}, nil, map[string]bool{"webserver": true})
	require.Error(t, err)
	le, ok := err.(*errdef.LogicError)
	require.True(t, ok)
	assert.Equal(t, 41, le.Code)
}

func TestProcessGroupsMergesPolicyPropertiesAndTriggers(t *testing.T) {
	policyTypes := map[string]*model.PolicyType{
		"scaling_policy": {Name: "scaling_policy", Properties: map[string]any{
			"min": map[string]any{"default": 1},
			"max": map[string]any{},
		}},
	}
	policyTriggers := map[string]*model.PolicyTrigger{
		"threshold_trigger": {Name: "threshold_trigger", Parameters: map[string]any{
			"metric": map[string]any{"default": "cpu"},
		}},
	}
	raw := map[string]any{
		"web_group": map[string]any{
			"members": []any{"webserver"},
			"policies": map[string]any{
				"auto_scale": map[string]any{
					"type":       "scaling_policy",
					"properties": map[string]any{"max": 10},
					"triggers": map[string]any{
						"on_threshold": map[string]any{"type": "threshold_trigger"},
					},
				},
			},
		},
	}

	groups, err := ProcessGroups(raw, policyTypes, policyTriggers, map[string]bool{"webserver": true})
	require.NoError(t, err)

	group := groups["web_group"]
	require.NotNil(t, group)
	assert.Equal(t, []string{"webserver"}, group.Members)

	policy := group.Policies["auto_scale"]
	require.NotNil(t, policy)
	assert.Equal(t, 1, policy.Properties["min"])
	assert.Equal(t, 10, policy.Properties["max"])

	trigger := policy.Triggers["on_threshold"]
	require.NotNil(t, trigger)
	assert.Equal(t, "cpu", trigger.Parameters["metric"])
}
