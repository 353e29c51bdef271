package propmerge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergePropertiesValuesWinOverOverridesAndDefaults(t *testing.T) {
	schema := map[string]any{
		"a": map[string]any{"default": "schema-default"},
		"b": map[string]any{"default": "schema-default"},
		"c": map[string]any{"default": "schema-default"},
	}
	values := map[string]any{"a": "from-instance"}
	overrides := map[string]any{"a": "from-override", "b": "from-override"}

	result, err := MergeProperties(schema, values, overrides, "%s not part of schema: %s", "%s missing mandatory: %s", "node x")
	require.NoError(t, err)
	assert.Equal(t, "from-instance", result["a"])
	assert.Equal(t, "from-override", result["b"])
	assert.Equal(t, "schema-default", result["c"])
}

func TestMergePropertiesMandatoryMissing(t *testing.T) {
	schema := map[string]any{"a": map[string]any{}}
	_, err := MergeProperties(schema, nil, nil, "%s not part of schema: %s", "%s missing mandatory: %s", "node x")
	assert.Error(t, err)
}

func TestMergePropertiesUnknownKeyInValues(t *testing.T) {
	schema := map[string]any{"a": map[string]any{"default": 1}}
	_, err := MergeProperties(schema, map[string]any{"unknown": 1}, nil, "%s not part of schema: %s", "%s missing mandatory: %s", "node x")
	assert.Error(t, err)
}

func TestMergePropertiesUnknownKeyInOverrides(t *testing.T) {
	schema := map[string]any{"a": map[string]any{"default": 1}}
	_, err := MergeProperties(schema, nil, map[string]any{"unknown": 1}, "%s not part of schema: %s", "%s missing mandatory: %s", "node x")
	assert.Error(t, err)
}
