package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtt-project/mtt/internal/doctor"
	"github.com/mtt-project/mtt/pkg/color"
)

var doctorRepair bool

type doctorOutput struct {
	*doctor.Result
	Repairs []string `json:"repairs,omitempty"`
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the data directory for problems",
	Long: `Check the state file, lock, temporary files and journal.

With --repair, fix what can be fixed: stale locks are removed, leftover
temporary files are deleted and an unreadable state file is moved aside to
state.json.corrupt-<unix time> so the next command starts fresh.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := app.openStore()
		if err != nil {
			return err
		}
		doc := doctor.NewDoctor(st, app.journal)

		var repairs []string
		if doctorRepair {
			repairs, err = doc.Repair(cmd.Context())
			if err != nil {
				return fmt.Errorf("repair: %w", err)
			}
		}
		result := doc.Check()

		if jsonOutput {
			if err := outputJSON(cmd, doctorOutput{Result: result, Repairs: repairs}); err != nil {
				return err
			}
		} else {
			out := cmd.OutOrStdout()
			for _, r := range repairs {
				fmt.Fprintf(out, "%s %s\n", color.Success("fixed:"), r)
			}
			if len(result.Findings) == 0 {
				fmt.Fprintln(out, "Data directory is healthy.")
			} else {
				fmt.Fprintf(out, "Findings (%d):\n", len(result.Findings))
				for _, f := range result.Findings {
					line := fmt.Sprintf("  [%s] %s: %s", f.Severity, f.Category, f.Description)
					if f.Repairable && !doctorRepair {
						line += color.Dim(" (repairable)")
					}
					fmt.Fprintln(out, line)
				}
			}
		}

		if !result.Healthy {
			return fmt.Errorf("data directory is unhealthy")
		}
		return nil
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorRepair, "repair", false, "fix repairable findings")
	rootCmd.AddCommand(doctorCmd)
}
