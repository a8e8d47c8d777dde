package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Config
	}{
		{"empty", "", defaultConfig()},
		{"all", "parallelism = 4\nlog_level = \"debug\"\nwrt = \"t\"\nformat = \"%.3e\"\n", Config{4, "debug", "t", "%.3e"}},
		{"some", "parallelism = 0\n", Config{0, "warning", "x", "%g"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := loadConfig(writeConfig(t, c.text))
			require.NoError(t, err)
			assert.Equal(t, c.want, cfg)
		})
	}
}

func TestLoadConfigNoFile(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		msg  string
	}{
		{"syntax", "parallelism = \n", "reading config"},
		{"type", "parallelism = \"many\"\n", "reading config"},
		{"unknown", "wrt = \"x\"\nprecision = 64\n[extra]\nkey = 1\n", "unknown keys in config"},
		{"negative", "parallelism = -1\n", "must not be negative"},
		{"level", "log_level = \"loud\"\n", "bad log level"},
		{"wrt", "wrt = \"\"\n", "wrt must name a variable"},
		{"format", "format = \"g\"\n", "has no verb"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, c.text))
			assert.ErrorContains(t, err, c.msg)
		})
	}
}

func TestSplitTop(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, splitTop("1,2,3"))
	assert.Equal(t, []string{"max(1, 2)", "[3]"}, splitTop("max(1, 2),[3]"))
	assert.Equal(t, []string{""}, splitTop(""))
}
