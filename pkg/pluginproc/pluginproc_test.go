package pluginproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/model"
)

func TestProcessPluginsRejectsIllegalExecutor(t *testing.T) {
	_, err := ProcessPlugins(map[string]any{
		"my_plugin": map[string]any{"executor": "bogus_agent"},
	})
	require.Error(t, err)
	le, ok := err.(*errdef.LogicError)
	require.True(t, ok)
	assert.Equal(t, 18, le.Code)
}

func TestProcessPluginsRequiresSourceWhenInstallTrue(t *testing.T) {
	_, err := ProcessPlugins(map[string]any{
		"my_plugin": map[string]any{"executor": "host_agent"},
	})
	require.Error(t, err)
	le, ok := err.(*errdef.LogicError)
	require.True(t, ok)
	assert.Equal(t, 50, le.Code)
}

func TestProcessPluginsAllowsNoSourceWhenInstallFalse(t *testing.T) {
	processed, err := ProcessPlugins(map[string]any{
		"my_plugin": map[string]any{"executor": "host_agent", "install": false},
	})
	require.NoError(t, err)
	plugin := processed["my_plugin"].(map[string]any)
	assert.Equal(t, false, plugin["install"])
	assert.Equal(t, "my_plugin", plugin["name"])
}

func TestProcessPluginsDefaultsInstallTrue(t *testing.T) {
	processed, err := ProcessPlugins(map[string]any{
		"my_plugin": map[string]any{"executor": "central_deployment_agent", "source": "pypi"},
	})
	require.NoError(t, err)
	plugin := processed["my_plugin"].(map[string]any)
	assert.Equal(t, true, plugin["install"])
}

func TestToModelPluginNilRawReturnsNil(t *testing.T) {
	assert.Nil(t, ToModelPlugin("x", nil))
}

func TestToModelPluginConvertsFields(t *testing.T) {
	m := ToModelPlugin("my_plugin", map[string]any{
		"executor": "host_agent",
		"source":   "pypi",
		"install":  true,
	})
	require.NotNil(t, m)
	assert.Equal(t, "my_plugin", m.Name)
	assert.Equal(t, model.PluginExecutorHostAgent, m.Executor)
	assert.Equal(t, "pypi", m.Source)
	assert.True(t, m.Install)
}
