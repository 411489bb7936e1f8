package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workflow-autofix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, used, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", used)
	assert.False(t, cfg.Fix.Write)
	assert.Equal(t, OutputText, cfg.Fix.Output)
	assert.Equal(t, ColorAuto, cfg.Fix.Color)
	assert.Equal(t, 2, cfg.Fix.Indent)
	assert.Equal(t, "human", cfg.LogFormat)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
debug: true
log_format: json
fix:
  write: true
  output: json
  disabled_rules:
    - VARIABLE_NAME_TYPO
  corrections_file: extra.yaml
`)

	cfg, used, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, used)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Fix.Write)
	assert.Equal(t, OutputJSON, cfg.Fix.Output)
	assert.Equal(t, []string{"VARIABLE_NAME_TYPO"}, cfg.Fix.DisabledRules)
	assert.Equal(t, "extra.yaml", cfg.Fix.CorrectionsFile)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "fix:\n  output: text\n")
	t.Setenv("WORKFLOW_AUTOFIX_FIX_OUTPUT", "json")
	t.Setenv("WORKFLOW_AUTOFIX_FIX_DISABLED_RULES", "MODULE_PATH_CASE,ARRAY_PARAM_RENAME")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, cfg.Fix.Output)
	assert.Equal(t, []string{"MODULE_PATH_CASE", "ARRAY_PARAM_RENAME"}, cfg.Fix.DisabledRules)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "fix:\n  output: xml\n")

	_, _, err := Load(path)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrConfigInvalid))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrConfigParseError))
}

func TestInitializeSetsInstance(t *testing.T) {
	path := writeConfig(t, "fix:\n  backup: true\n")
	saved := Instance
	t.Cleanup(func() { Instance = saved; ConfigLoaded = false; ConfigFile = "" })

	require.NoError(t, Initialize(path))
	assert.True(t, Instance.Fix.Backup)
	assert.True(t, ConfigLoaded)
	assert.Equal(t, path, ConfigFile)
}
