// Package tooling is the public entry point for correcting workflow files,
// used by the CLI and by programs that embed the corrector.
package tooling

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-workflow-autofix/internal/autofix"
	"github.com/deploymenttheory/go-workflow-autofix/internal/config"
	"github.com/deploymenttheory/go-workflow-autofix/internal/logger"
	"github.com/deploymenttheory/go-workflow-autofix/internal/report"
	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/cryptoutil"
	"github.com/deploymenttheory/go-workflow-autofix/internal/workflow"
)

// Version is overridden at build time with -ldflags "-X ...tooling.Version=..."
var Version = "0.1.0"

// InitOptions contains options for initializing the tooling API
type InitOptions struct {
	ConfigFile  string // Path to configuration file
	Debug       bool   // Enable debug logging
	LogFormat   string // Log format: "human" or "json"
	LogFile     string // Path to log file
	SuppressLog bool   // Suppress all logging
}

// Options controls a single correction run
type Options struct {
	Write           bool     // write the corrected document back when fixes were applied
	Backup          bool     // keep <file>.bak before overwriting
	Indent          int      // indentation of the written document
	DisabledRules   []string // rule names or fix types to skip
	CorrectionsFile string   // extra function-name corrections
	Digest          string   // digest algorithm for input/output fingerprints
}

// FixResult contains the outcome of correcting one workflow file
type FixResult struct {
	RunID        string
	File         string
	Workflow     string
	Fixes        []autofix.Fix
	Written      bool
	InputDigest  string
	OutputDigest string
	Document     *workflow.Document // corrected document
}

var initialized bool

// Initialize initializes the tooling API with the given options
func Initialize(options InitOptions) error {
	if initialized {
		return nil // Already initialized
	}

	configErr := config.Initialize(options.ConfigFile)

	// Update config with provided options
	if options.Debug {
		config.Instance.Debug = true
	}
	if options.LogFormat != "" {
		config.Instance.LogFormat = options.LogFormat
	}
	if options.LogFile != "" {
		config.Instance.LogFile = options.LogFile
	}

	if !options.SuppressLog {
		logConfig := logger.LoggerConfig{
			Debug:     config.Instance.Debug,
			LogFormat: config.Instance.LogFormat,
			LogFile:   config.Instance.LogFile,
		}

		if err := logger.InitLogger(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.LogDebug("Tooling API initialized", map[string]interface{}{
			"config_file": config.ConfigFile,
			"debug":       config.Instance.Debug,
			"log_format":  config.Instance.LogFormat,
		})
	}

	if configErr != nil {
		return configErr
	}

	initialized = true
	return nil
}

// DefaultOptions returns the default initialization options
func DefaultOptions() InitOptions {
	return InitOptions{
		LogFormat:   "human",
		SuppressLog: true,
	}
}

// OptionsFromConfig builds run options from the fix section of the config
func OptionsFromConfig(cfg config.FixConfig) Options {
	return Options{
		Write:           cfg.Write,
		Backup:          cfg.Backup,
		Indent:          cfg.Indent,
		DisabledRules:   cfg.DisabledRules,
		CorrectionsFile: cfg.CorrectionsFile,
		Digest:          cfg.Digest,
	}
}

// Fixer corrects workflow files with one set of options
type Fixer struct {
	opts      Options
	corrector *autofix.Corrector
	hasher    cryptoutil.Hasher
}

// NewFixer prepares the corrector, loading extra corrections if configured
func NewFixer(opts Options) (*Fixer, error) {
	hasher, err := cryptoutil.NewHasher(cryptoutil.HashAlgorithm(opts.Digest))
	if err != nil {
		return nil, err
	}

	tables := autofix.DefaultTables()
	if opts.CorrectionsFile != "" {
		extra, err := autofix.LoadCorrections(opts.CorrectionsFile)
		if err != nil {
			return nil, err
		}
		if tables, err = tables.WithFunctionNames(extra); err != nil {
			return nil, err
		}
		logger.LogDebug("Loaded function name corrections", map[string]interface{}{
			"file":    opts.CorrectionsFile,
			"entries": len(extra),
		})
	}

	corrector, err := autofix.New(autofix.WithTables(tables), autofix.WithDisabled(opts.DisabledRules...))
	if err != nil {
		return nil, err
	}

	return &Fixer{opts: opts, corrector: corrector, hasher: hasher}, nil
}

// Corrector returns the underlying rule runner
func (f *Fixer) Corrector() *autofix.Corrector {
	return f.corrector
}

// FixFile loads, corrects and, in write mode, rewrites one workflow file. A
// document without fixes is never rewritten.
func (f *Fixer) FixFile(path string) (*FixResult, error) {
	runID := uuid.NewString()
	runLog := logger.WithFields(map[string]interface{}{
		"file":   path,
		"run_id": runID,
	})
	runLog.Info("Processing workflow")

	doc, file, err := workflow.LoadFile(path)
	if err != nil {
		runLog.Errorw("Failed to load workflow", "error", err.Error())
		return nil, err
	}

	triggerType := ""
	if trigger := doc.Trigger(); trigger != nil {
		triggerType = trigger.Type
	}
	runLog.Debugw("Loaded workflow",
		"version", doc.Version(),
		"trigger", triggerType,
		"steps", doc.StepIDs(),
		"credentials", doc.RequiredCredentials(),
	)

	result := &FixResult{
		RunID:    runID,
		File:     path,
		Workflow: doc.Name(),
		Document: doc,
	}
	if result.InputDigest, err = f.digest(file.Plain); err != nil {
		return nil, err
	}

	ledger := f.corrector.Correct(doc)
	result.Fixes = ledger.Fixes()

	var out []byte
	if f.opts.Write && !ledger.Empty() {
		out, err = workflow.SaveFile(doc, file, workflow.WriteOptions{Indent: f.opts.Indent, Backup: f.opts.Backup})
		if err != nil {
			runLog.Errorw("Failed to write corrected workflow", "error", err.Error())
			return result, err
		}
		result.Written = true
	} else if out, err = doc.Encode(f.opts.Indent); err != nil {
		return nil, err
	}

	if result.OutputDigest, err = f.digest(out); err != nil {
		return nil, err
	}

	runLog.Infow("Workflow processed",
		"workflow", result.Workflow,
		"fixes", len(result.Fixes),
		"written", result.Written,
		"input_digest", result.InputDigest,
		"output_digest", result.OutputDigest,
	)
	return result, nil
}

func (f *Fixer) digest(data []byte) (string, error) {
	return cryptoutil.Digest(f.hasher.Algorithm(), data)
}

// FixWorkflow corrects a single workflow file
func FixWorkflow(path string, opts Options) (*FixResult, error) {
	if !initialized {
		if err := Initialize(DefaultOptions()); err != nil {
			return nil, fmt.Errorf("failed to initialize tooling API: %w", err)
		}
	}

	fixer, err := NewFixer(opts)
	if err != nil {
		return nil, err
	}
	return fixer.FixFile(path)
}

// Report converts the result for the report renderer
func (r *FixResult) Report() report.Report {
	return report.Report{
		RunID:        r.RunID,
		File:         r.File,
		Workflow:     r.Workflow,
		Fixes:        r.Fixes,
		Written:      r.Written,
		DryRun:       !r.Written,
		InputDigest:  r.InputDigest,
		OutputDigest: r.OutputDigest,
	}
}

// GetVersion returns the current version of the tooling API
func GetVersion() string {
	return Version
}

// Shutdown flushes buffered logs before the application exits
func Shutdown() error {
	logger.LogDebug("Tooling API shutting down", map[string]interface{}{
		"initialized": initialized,
	})
	_ = logger.Sync()
	return nil
}
