package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtt-project/mtt/pkg/color"
	"github.com/mtt-project/mtt/pkg/model"
)

var resetCmd = &cobra.Command{
	Use:   "reset [NAME]",
	Short: "Clear a timer's records",
	Long: `Clear every record of the named or active timer, bringing its total
to zero. A running interval is kept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			name    string
			cleared int
		)
		err := app.mutate(cmd.Context(), "reset", func(state *model.AppState) ([]event, error) {
			n, t, err := resolveTimer(state, args)
			if err != nil {
				return nil, err
			}
			name, cleared = n, len(t.Records)
			t.Reset()
			return []event{{Type: model.EventTimerReset, Timer: n, Details: map[string]any{"records": cleared}}}, nil
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd, map[string]any{"timer": name, "cleared_records": cleared})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %s (%d %s cleared)\n", color.Timer(name), cleared, plural(cleared, "record", "records"))
		return nil
	},
}

func init() {
	resetCmd.ValidArgsFunction = completeTimerNames
	rootCmd.AddCommand(resetCmd)
}
