package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-workflow-autofix/internal/config"
	"github.com/deploymenttheory/go-workflow-autofix/internal/logger"
	"github.com/deploymenttheory/go-workflow-autofix/internal/report"
	"github.com/deploymenttheory/go-workflow-autofix/pkg/tooling"
)

// cliState carries the configuration resolved for one command invocation
type cliState struct {
	cfgFile string
	cfg     config.AppConfig
}

// NewRootCmd builds the command tree. The root command corrects the
// workflow files given as arguments.
func NewRootCmd() *cobra.Command {
	state := &cliState{}

	rootCmd := &cobra.Command{
		Use:   config.AppName + " <workflow.json> [more.json...]",
		Short: "Detect and fix common defects in workflow JSON files",
		Long: `workflow-autofix checks workflow documents for known authoring mistakes
and corrects them: AI SDK option shapes and token limits, bare references to
AI results, array parameter shapes, legacy returnValue placement, variable
name typos and module path casing.

By default the fixes are only reported. Pass --write to update the files.
Compressed files (.json.gz, .json.bz2, .json.xz) are supported.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return state.resolve(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, state, args)
		},
	}

	// Config file flag
	rootCmd.PersistentFlags().StringVar(&state.cfgFile, "config", "", "config file (default is search in standard locations)")

	// Logging flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-format", "human", "Log format: json or human")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file")

	// Report flags
	rootCmd.PersistentFlags().StringP("output", "o", config.OutputText, "Report format: text or json")
	rootCmd.PersistentFlags().String("color", config.ColorAuto, "Color the text report: auto, always or never")
	rootCmd.PersistentFlags().StringSlice("disable", nil, "Rules or fix types to skip (repeatable, comma separated)")

	// Fix flags
	rootCmd.Flags().BoolP("write", "w", false, "Write fixes back to the workflow files")
	rootCmd.Flags().Bool("backup", false, "Keep a .bak copy of each file before writing")
	rootCmd.Flags().String("corrections", "", "YAML file with extra function name corrections")
	rootCmd.Flags().Int("indent", 2, "Indentation of written files (0 writes compact JSON)")

	rootCmd.AddCommand(newRulesCmd(state))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		logger.LogError("Command execution failed", err, nil)
		return 1
	}
	return 0
}

// resolve merges the loaded configuration with explicitly set flags and
// starts logging.
func (s *cliState) resolve(cmd *cobra.Command) error {
	s.cfg = config.Instance
	if cmd.Flags().Changed("config") && s.cfgFile != "" {
		cfg, _, err := config.Load(s.cfgFile)
		if err != nil {
			return err
		}
		s.cfg = *cfg
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		s.cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("log-format") {
		s.cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("log-file") {
		s.cfg.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("output") {
		s.cfg.Fix.Output, _ = flags.GetString("output")
	}
	if flags.Changed("color") {
		s.cfg.Fix.Color, _ = flags.GetString("color")
	}
	if flags.Changed("disable") {
		s.cfg.Fix.DisabledRules, _ = flags.GetStringSlice("disable")
	}
	if flags.Lookup("write") != nil {
		if flags.Changed("write") {
			s.cfg.Fix.Write, _ = flags.GetBool("write")
		}
		if flags.Changed("backup") {
			s.cfg.Fix.Backup, _ = flags.GetBool("backup")
		}
		if flags.Changed("corrections") {
			s.cfg.Fix.CorrectionsFile, _ = flags.GetString("corrections")
		}
		if flags.Changed("indent") {
			s.cfg.Fix.Indent, _ = flags.GetInt("indent")
		}
	}

	if err := s.cfg.Validate(); err != nil {
		return err
	}

	logConfig := logger.DefaultConfig()
	logConfig.Debug = s.cfg.Debug
	if s.cfg.LogFormat != "" {
		logConfig.LogFormat = s.cfg.LogFormat
	}
	logConfig.LogFile = s.cfg.LogFile
	return logger.InitLogger(logConfig)
}

func runFix(cmd *cobra.Command, state *cliState, args []string) error {
	fixCfg := state.cfg.Fix

	renderer, err := report.NewRenderer(cmd.OutOrStdout(), report.Options{
		Format:  fixCfg.Output,
		Color:   fixCfg.Color,
		Command: config.AppName + " " + strings.Join(args, " "),
	})
	if err != nil {
		return err
	}

	fixer, err := tooling.NewFixer(tooling.OptionsFromConfig(fixCfg))
	if err != nil {
		return err
	}

	logger.LogInfo("Correcting workflow files", map[string]interface{}{
		"files": len(args),
		"write": fixCfg.Write,
	})

	failed := 0
	for _, path := range args {
		result, err := fixer.FixFile(path)
		if err != nil {
			failed++
			rep := report.Report{File: path}
			if result != nil {
				rep = result.Report()
			}
			rep.Error = err.Error()
			if renderErr := renderer.Render(rep); renderErr != nil {
				return renderErr
			}
			continue
		}

		if err := renderer.Render(result.Report()); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d workflow files could not be processed", failed, len(args))
	}
	return nil
}
