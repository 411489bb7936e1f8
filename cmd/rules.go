package cmd

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-workflow-autofix/internal/autofix"
	"github.com/deploymenttheory/go-workflow-autofix/internal/config"
	"github.com/deploymenttheory/go-workflow-autofix/internal/report"
)

type ruleInfo struct {
	Order       int               `json:"order"`
	Name        string            `json:"name"`
	Types       []autofix.FixType `json:"types"`
	Description string            `json:"description"`
	Enabled     bool              `json:"enabled"`
}

// newRulesCmd lists the correction rules in execution order
func newRulesCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the correction rules in the order they run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			corrector, err := autofix.New(autofix.WithDisabled(state.cfg.Fix.DisabledRules...))
			if err != nil {
				return err
			}

			var infos []ruleInfo
			for i, r := range corrector.Rules() {
				infos = append(infos, ruleInfo{
					Order:       i + 1,
					Name:        r.Name(),
					Types:       r.Types(),
					Description: r.Description(),
					Enabled:     corrector.Enabled(r),
				})
			}

			if state.cfg.Fix.Output == config.OutputJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(infos)
			}

			renderer, err := report.NewRenderer(cmd.OutOrStdout(), report.Options{Color: state.cfg.Fix.Color})
			if err != nil {
				return err
			}

			rows := make([]report.TableRow, 0, len(infos))
			for _, info := range infos {
				name := info.Name
				if !info.Enabled {
					name += " (disabled)"
				}
				types := make([]string, len(info.Types))
				for i, t := range info.Types {
					types[i] = string(t)
				}
				rows = append(rows, report.TableRow{
					Cells: []string{strconv.Itoa(info.Order), name, strings.Join(types, ","), info.Description},
					Muted: !info.Enabled,
				})
			}
			return renderer.Table([]string{"#", "RULE", "FIX TYPES", "DESCRIPTION"}, rows)
		},
	}
}
