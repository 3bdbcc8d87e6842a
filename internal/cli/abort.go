package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtt-project/mtt/pkg/color"
	"github.com/mtt-project/mtt/pkg/model"
	"github.com/mtt-project/mtt/pkg/timefmt"
)

var abortCmd = &cobra.Command{
	Use:   "abort [NAME]",
	Short: "Discard the running interval without recording it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at := now()
		var (
			name      string
			discarded time.Duration
		)
		err := app.mutate(cmd.Context(), "abort", func(state *model.AppState) ([]event, error) {
			n, _, err := resolveTimer(state, args)
			if err != nil {
				return nil, err
			}
			start, err := state.AbortTimer(n)
			if err != nil {
				return nil, err
			}
			name = n
			discarded = at.Sub(start)
			return []event{{Type: model.EventTimerAbort, Timer: n, Details: map[string]any{"start": start}}}, nil
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd, map[string]any{"timer": name, "discarded_seconds": int64(discarded.Seconds())})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Aborted %s (discarded %s)\n", color.Warning("✗"), color.Timer(name),
			timefmt.FormatDuration(discarded))
		return nil
	},
}

func init() {
	abortCmd.ValidArgsFunction = completeTimerNames
	rootCmd.AddCommand(abortCmd)
}
