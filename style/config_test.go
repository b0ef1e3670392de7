package style

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"off": Off, "0": Off, "warn": Warn, "Warning": Warn, "1": Warn, " error ": Error, "2": Error,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.ErrorContains(t, err, `invalid rule level "loud"`)

	assert.Equal(t, "warn", Warn.String())
	assert.Equal(t, "Level(7)", Level(7).String())
}

func TestLevelText(t *testing.T) {
	var l Level
	require.NoError(t, l.UnmarshalText([]byte("error")))
	assert.Equal(t, Error, l)
	text, err := Warn.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warn", string(text))
	assert.Error(t, l.UnmarshalText([]byte("nope")))
}

func TestMerge(t *testing.T) {
	defaults := Config{"a": Warn, "b": Error}
	overrides := Config{"b": Off, "c": Warn}
	merged := Merge(defaults, overrides)
	assert.Equal(t, Config{"a": Warn, "b": Off, "c": Warn}, merged)
	assert.Equal(t, Config{"a": Warn, "b": Error}, defaults)
	assert.Empty(t, Merge(nil, nil))
}

func TestValidate(t *testing.T) {
	known := []string{"no-var", "eqeqeq", "no-tabs"}
	assert.NoError(t, Config{"no-var": Off}.Validate(known))
	assert.NoError(t, Config(nil).Validate(known))

	err := Config{"eqeqq": Warn, "zzz": Error}.Validate(known)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors occurred")
	assert.Contains(t, err.Error(), `unknown style rule "eqeqq"; did you mean 'eqeqeq'?`)
	assert.Contains(t, err.Error(), `unknown style rule "zzz"`)
}

func TestParseRuleFlag(t *testing.T) {
	name, level, err := ParseRuleFlag("no-var=off")
	require.NoError(t, err)
	assert.Equal(t, "no-var", name)
	assert.Equal(t, Off, level)

	_, _, err = ParseRuleFlag("no-var")
	assert.ErrorContains(t, err, "expected name=level")
	_, _, err = ParseRuleFlag("no-var=maybe")
	assert.ErrorContains(t, err, "rule no-var")
}

func TestParseFile(t *testing.T) {
	settings, err := ParseFile(`
max_len = 100

[rules]
no-var = "off"
eqeqeq = 2
`)
	require.NoError(t, err)
	assert.Equal(t, 100, settings.MaxLen)
	assert.Equal(t, Config{"no-var": Off, "eqeqeq": Error}, settings.Rules)

	_, err = ParseFile("colour = 1")
	assert.ErrorContains(t, err, "unknown keys: colour")

	_, err = ParseFile("[rules]\nno-var = \"loud\"")
	assert.Error(t, err)

	_, err = ParseFile("max_len = -1")
	assert.ErrorContains(t, err, "max_len")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.toml")
	require.NoError(t, os.WriteFile(path, []byte("[rules]\nno-tabs = \"error\"\n"), 0o644))
	settings, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Config{"no-tabs": Error}, settings.Rules)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
