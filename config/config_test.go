package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestRealtimeSuggestionsEnabled_ReadFresh(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("realtime_suggestions", true)
	assert.True(t, RealtimeSuggestionsEnabled())

	// A configuration change must be visible on the very next check.
	viper.Set("realtime_suggestions", false)
	assert.False(t, RealtimeSuggestionsEnabled())
}

func TestEditorFormatting_ReadFresh(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("editor.tab_size", 8)
	viper.Set("editor.indent_size", 2)
	viper.Set("editor.use_tabs", true)

	format := EditorFormatting()
	assert.Equal(t, 8, format.TabSize)
	assert.Equal(t, 2, format.IndentSize)
	assert.True(t, format.UseTabs)

	viper.Set("editor.tab_size", 4)
	assert.Equal(t, 4, EditorFormatting().TabSize)
}

func TestGetConfigFileType(t *testing.T) {
	assert.Equal(t, "json", GetConfigFileType("codetab-config.json"))
	assert.Equal(t, "yaml", GetConfigFileType("codetab-config.yaml"))
	assert.Equal(t, "yaml", GetConfigFileType("codetab-config.yml"))
	assert.Equal(t, "", GetConfigFileType("codetab-config.toml"))
}
