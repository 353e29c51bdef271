package merger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/importgraph"
	"github.com/cloudify-tosca/blueprint/pkg/loader"
	"github.com/cloudify-tosca/blueprint/pkg/resolver"
)

type nopFetcher struct{}

func (nopFetcher) Fetch(string) ([]byte, error) { return nil, nil }

func TestCombineRequiresVersion(t *testing.T) {
	_, err := Combine(map[string]any{}, "", nil, resolver.New(nil, "", nil), nopFetcher{})
	require.Error(t, err)
	le, ok := err.(*errdef.LogicError)
	require.True(t, ok)
	assert.Equal(t, 27, le.Code)
}

func TestCombineMergesNodeTypesAcrossImports(t *testing.T) {
	root := map[string]any{
		"tosca_definitions_version": "cloudify_dsl_1_0",
		"node_types": map[string]any{
			"app_type": map[string]any{},
		},
	}
	imported := []*importgraph.ImportedDoc{
		{URL: "https://example.com/types.yaml", Tree: map[string]any{
			"node_types": map[string]any{
				"db_type": map[string]any{},
			},
		}},
	}

	combined, err := Combine(root, "", imported, resolver.New(nil, "", nil), nopFetcher{})
	require.NoError(t, err)

	nodeTypes := combined["node_types"].(map[string]any)
	assert.Contains(t, nodeTypes, "app_type")
	assert.Contains(t, nodeTypes, "db_type")
	assert.NotContains(t, combined, "imports")
}

func TestCombineConflictingKeyFails(t *testing.T) {
	root := map[string]any{
		"tosca_definitions_version": "cloudify_dsl_1_0",
		"node_types": map[string]any{
			"app_type": map[string]any{"derived_from": "a"},
		},
	}
	imported := []*importgraph.ImportedDoc{
		{URL: "https://example.com/types.yaml", Tree: map[string]any{
			"node_types": map[string]any{
				"app_type": map[string]any{"derived_from": "b"},
			},
		}},
	}

	_, err := Combine(root, "", imported, resolver.New(nil, "", nil), nopFetcher{})
	require.Error(t, err)
	le, ok := err.(*errdef.LogicError)
	require.True(t, ok)
	assert.Equal(t, 4, le.Code)
}

func TestCombineNonMergeableDuplicateSectionFails(t *testing.T) {
	root := map[string]any{
		"tosca_definitions_version": "cloudify_dsl_1_0",
		"inputs":                    map[string]any{"a": 1},
	}
	imported := []*importgraph.ImportedDoc{
		{URL: "https://example.com/extra.yaml", Tree: map[string]any{
			"inputs": map[string]any{"b": 2},
		}},
	}

	_, err := Combine(root, "", imported, resolver.New(nil, "", nil), nopFetcher{})
	require.Error(t, err)
	le, ok := err.(*errdef.LogicError)
	require.True(t, ok)
	assert.Equal(t, 3, le.Code)
}

var _ loader.Fetcher = nopFetcher{}
