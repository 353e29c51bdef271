package loader

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/resolver"
)

func TestLoadYAMLParsesDocument(t *testing.T) {
	tree, err := LoadYAML([]byte("tosca_definitions_version: cloudify_dsl_1_0\n"), "test")
	require.NoError(t, err)
	assert.Equal(t, "cloudify_dsl_1_0", tree["tosca_definitions_version"])
}

func TestLoadYAMLEmptyDocumentBecomesEmptyMap(t *testing.T) {
	tree, err := LoadYAML([]byte(""), "test")
	require.NoError(t, err)
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}

func TestLoadYAMLInvalidYAMLIsFormatError(t *testing.T) {
	_, err := LoadYAML([]byte("key: [unterminated"), "test.yaml")
	require.Error(t, err)
	fe, ok := err.(*errdef.FormatError)
	require.True(t, ok)
	assert.Equal(t, -1, fe.Code)
}

type fakeFetcher struct {
	data map[string][]byte
	err  map[string]error
}

func (f *fakeFetcher) Fetch(url string) ([]byte, error) {
	if err, ok := f.err[url]; ok {
		return nil, err
	}
	return f.data[url], nil
}

func TestFetchAndLoadWrapsFetchFailure(t *testing.T) {
	f := &fakeFetcher{err: map[string]error{"https://example.com/x.yaml": fmt.Errorf("boom")}}
	_, err := FetchAndLoad(f, "https://example.com/x.yaml", "ctx")
	require.Error(t, err)
	le, ok := err.(*errdef.LogicError)
	require.True(t, ok)
	assert.Equal(t, 13, le.Code)
}

func TestInlineRefsReplacesRefLeafAndStripsANSI(t *testing.T) {
	f := &fakeFetcher{data: map[string][]byte{
		"https://example.com/scripts/create.sh": []byte("\x1b[31mecho hi\x1b[0m"),
	}}
	res := resolver.New(nil, "", &alwaysExistsProber{})
	tree := map[string]any{
		"script": map[string]any{"ref": "scripts/create.sh"},
	}
	require.NoError(t, InlineRefs(tree, "https://example.com/main.yaml", res, f))
	assert.Equal(t, "echo hi", tree["script"].(map[string]any)["ref"])
}

type alwaysExistsProber struct{}

func (alwaysExistsProber) Exists(string) bool { return true }
