package nodeproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudify-tosca/blueprint/pkg/errdef"
)

func baseContext() *Context {
	return &Context{
		NodeTypes: map[string]any{
			"cloudify.types.webserver": map[string]any{
				"properties": map[string]any{
					"port": map[string]any{"default": 8080},
				},
			},
		},
		Relationships:                map[string]any{},
		Plugins:                      map[string]any{},
		TypeImplementations:          map[string]map[string]any{},
		RelationshipImplementations:  map[string]map[string]any{},
		NodeNames:                    map[string]bool{"web": true},
	}
}

func TestProcessNodeMinimal(t *testing.T) {
	ctx := baseContext()
	raw := map[string]any{"type": "cloudify.types.webserver"}
	node, err := ProcessNode("web", raw, ctx)
	require.NoError(t, err)
	assert.Equal(t, "web", node.ID)
	assert.Equal(t, "cloudify.types.webserver", node.Type)
	assert.Equal(t, 8080, node.Properties["port"])
	assert.Equal(t, map[string]any{}, node.Properties["cloudify_runtime"])
	assert.Equal(t, map[string]any{"deploy": 1}, node.Instances)
}

func TestProcessNodeUnknownTypeFails(t *testing.T) {
	ctx := baseContext()
	raw := map[string]any{"type": "nonexistent"}
	_, err := ProcessNode("web", raw, ctx)
	require.Error(t, err)
	logicErr, ok := err.(*errdef.LogicError)
	require.True(t, ok)
	assert.Equal(t, 7, logicErr.Code)
}

func TestProcessNodeRelationshipToSelfFails(t *testing.T) {
	ctx := baseContext()
	ctx.Relationships = map[string]any{
		"cloudify.relationships.depends_on": map[string]any{},
	}
	raw := map[string]any{
		"type": "cloudify.types.webserver",
		"relationships": []any{
			map[string]any{"type": "cloudify.relationships.depends_on", "target": "web"},
		},
	}
	_, err := ProcessNode("web", raw, ctx)
	require.Error(t, err)
	logicErr, ok := err.(*errdef.LogicError)
	require.True(t, ok)
	assert.Equal(t, 23, logicErr.Code)
}

func TestProcessNodeRelationshipToUndefinedTargetFails(t *testing.T) {
	ctx := baseContext()
	ctx.Relationships = map[string]any{
		"cloudify.relationships.depends_on": map[string]any{},
	}
	raw := map[string]any{
		"type": "cloudify.types.webserver",
		"relationships": []any{
			map[string]any{"type": "cloudify.relationships.depends_on", "target": "ghost"},
		},
	}
	_, err := ProcessNode("web", raw, ctx)
	require.Error(t, err)
	logicErr, ok := err.(*errdef.LogicError)
	require.True(t, ok)
	assert.Equal(t, 25, logicErr.Code)
}

func TestProcessNodeRelationshipUndefinedTypeFails(t *testing.T) {
	ctx := baseContext()
	ctx.NodeNames["db"] = true
	raw := map[string]any{
		"type": "cloudify.types.webserver",
		"relationships": []any{
			map[string]any{"type": "cloudify.relationships.ghost", "target": "db"},
		},
	}
	_, err := ProcessNode("web", raw, ctx)
	require.Error(t, err)
	logicErr, ok := err.(*errdef.LogicError)
	require.True(t, ok)
	assert.Equal(t, 26, logicErr.Code)
}

func TestProcessNodeValidRelationship(t *testing.T) {
	ctx := baseContext()
	ctx.NodeNames["db"] = true
	ctx.Relationships = map[string]any{
		"cloudify.relationships.depends_on": map[string]any{
			"properties": map[string]any{},
		},
	}
	raw := map[string]any{
		"type": "cloudify.types.webserver",
		"relationships": []any{
			map[string]any{"type": "cloudify.relationships.depends_on", "target": "db"},
		},
	}
	node, err := ProcessNode("web", raw, ctx)
	require.NoError(t, err)
	require.Len(t, node.Relationships, 1)
	assert.Equal(t, "db", node.Relationships[0].TargetID)
	assert.Equal(t, "reachable", node.Relationships[0].State)
}

func TestProcessRelationshipTypesFlattensDerivedFrom(t *testing.T) {
	raw := map[string]any{
		"cloudify.relationships.depends_on": map[string]any{
			"properties": map[string]any{"a": map[string]any{"default": 1}},
		},
		"custom.rel": map[string]any{
			"derived_from": "cloudify.relationships.depends_on",
			"properties":   map[string]any{"b": map[string]any{"default": 2}},
		},
	}
	flattened, err := ProcessRelationshipTypes(raw, map[string]any{}, "", nil)
	require.NoError(t, err)
	custom := flattened["custom.rel"].(map[string]any)
	props := custom["properties"].(map[string]any)
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
}
