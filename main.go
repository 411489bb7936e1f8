package main

import (
	"fmt"
	"os"

	"github.com/deploymenttheory/go-workflow-autofix/cmd"
	"github.com/deploymenttheory/go-workflow-autofix/internal/config"
	"github.com/deploymenttheory/go-workflow-autofix/pkg/tooling"
)

func main() {
	// Get app configuration file from environment if specified
	configFile := os.Getenv(config.EnvPrefix + "_CONFIG")

	// 1. Initialize application configuration
	if err := config.Initialize(configFile); err != nil {
		// For app configuration errors, we print to stderr and exit since we can't continue
		fmt.Fprintf(os.Stderr, "Error initializing configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Run the CLI; logging is started once flags are parsed
	code := cmd.Execute()

	// Ensure logs are flushed before exit
	_ = tooling.Shutdown()
	os.Exit(code)
}
