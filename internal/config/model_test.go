package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_PluginLookups(t *testing.T) {
	t.Parallel()

	var nilModel *Model
	assert.Nil(t, nilModel.Plugin("remote"))
	assert.True(t, nilModel.PluginEnabled("remote"))
	assert.Empty(t, nilModel.PluginNames())

	m := NewModel()
	m.Plugins["remote"] = NewPluginSettings("remote", false, nil, nil, nil)
	m.Plugins["diagnostics"] = NewPluginSettings("diagnostics", true, nil, nil, nil)

	assert.False(t, m.PluginEnabled("remote"))
	assert.True(t, m.PluginEnabled("diagnostics"))
	assert.True(t, m.PluginEnabled("framecount"), "plugins without a block are enabled")
	assert.ElementsMatch(t, []string{"remote", "diagnostics"}, m.PluginNames())
}

func TestPluginSettings_DecodeWithoutBody(t *testing.T) {
	t.Parallel()

	type settings struct{ Every int }
	target := settings{Every: 5}

	var missing *PluginSettings
	require.NoError(t, missing.Decode(context.Background(), &target))
	require.NoError(t, NewPluginSettings("x", true, nil, nil, nil).Decode(context.Background(), &target))
	assert.Equal(t, 5, target.Every)
}
