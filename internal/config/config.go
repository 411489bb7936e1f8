package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/errors"
	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/fsutil"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name used for config files and directories
	AppName = "workflow-autofix"

	// EnvPrefix is the prefix for environment variables
	EnvPrefix = "WORKFLOW_AUTOFIX"
)

// Output formats for the fix report
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Color modes for the text report
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// AppConfig holds the application configuration
type AppConfig struct {
	// Core settings
	Debug     bool   `mapstructure:"debug"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`

	// Fix settings
	Fix FixConfig `mapstructure:"fix"`
}

// FixConfig controls a corrector run
type FixConfig struct {
	Write           bool     `mapstructure:"write"`            // overwrite the input file when fixes were applied
	Backup          bool     `mapstructure:"backup"`           // keep a .bak copy before overwriting
	Output          string   `mapstructure:"output"`           // text or json
	Color           string   `mapstructure:"color"`            // auto, always or never
	CorrectionsFile string   `mapstructure:"corrections_file"` // extra function-name corrections (YAML)
	DisabledRules   []string `mapstructure:"disabled_rules"`   // fix types whose rules are skipped
	Digest          string   `mapstructure:"digest"`           // sha256, sha512 or blake2b
	Indent          int      `mapstructure:"indent"`           // spaces per level when writing back
}

// Global variables
var (
	// Global configuration instance
	Instance = defaultConfig()

	// Status indicators
	ConfigLoaded bool
	ConfigFile   string

	mu sync.Mutex
)

// Initialize loads configuration into Instance. An empty cfgFile searches the
// standard locations; a missing config file is not an error.
func Initialize(cfgFile string) error {
	mu.Lock()
	defer mu.Unlock()

	cfg, used, err := Load(cfgFile)
	if err != nil {
		return err
	}

	Instance = *cfg
	ConfigFile = used
	ConfigLoaded = used != ""
	return nil
}

// Load reads configuration from defaults, the config file and the environment
// without touching the global Instance.
func Load(cfgFile string) (*AppConfig, string, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		addSearchPaths(v)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	used := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return nil, "", fmt.Errorf("%w: %s", errors.ErrConfigParseError, err.Error())
		}
	} else {
		used = v.ConfigFileUsed()
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, "", fmt.Errorf("%w: %s", errors.ErrConfigParseError, err.Error())
	}

	// viper does not split comma separated env values for slices
	if len(cfg.Fix.DisabledRules) == 1 && strings.Contains(cfg.Fix.DisabledRules[0], ",") {
		cfg.Fix.DisabledRules = strings.Split(cfg.Fix.DisabledRules[0], ",")
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, used, nil
}

// Validate checks enumerated settings
func (c *AppConfig) Validate() error {
	switch c.LogFormat {
	case "human", "json":
	default:
		return fmt.Errorf("%w: log_format must be human or json, got %q", errors.ErrConfigInvalid, c.LogFormat)
	}

	switch c.Fix.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("%w: fix.output must be text or json, got %q", errors.ErrConfigInvalid, c.Fix.Output)
	}

	switch c.Fix.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: fix.color must be auto, always or never, got %q", errors.ErrConfigInvalid, c.Fix.Color)
	}

	if c.Fix.Indent < 0 || c.Fix.Indent > 8 {
		return fmt.Errorf("%w: fix.indent must be between 0 and 8, got %d", errors.ErrConfigInvalid, c.Fix.Indent)
	}
	return nil
}

func defaultConfig() AppConfig {
	return AppConfig{
		LogFormat: "human",
		Fix: FixConfig{
			Output: OutputText,
			Color:  ColorAuto,
			Digest: "sha256",
			Indent: 2,
		},
	}
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	d := defaultConfig()

	// Core settings
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("log_file", "")

	// Fix defaults
	v.SetDefault("fix.write", false)
	v.SetDefault("fix.backup", false)
	v.SetDefault("fix.output", d.Fix.Output)
	v.SetDefault("fix.color", d.Fix.Color)
	v.SetDefault("fix.corrections_file", "")
	v.SetDefault("fix.disabled_rules", []string{})
	v.SetDefault("fix.digest", d.Fix.Digest)
	v.SetDefault("fix.indent", d.Fix.Indent)
}

// addSearchPaths adds config search paths
func addSearchPaths(v *viper.Viper) {
	// Always check current directory first
	v.AddConfigPath(".")

	for _, dir := range fsutil.ConfigSearchDirs(AppName) {
		v.AddConfigPath(dir)
	}
}
