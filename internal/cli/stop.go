package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtt-project/mtt/pkg/color"
	"github.com/mtt-project/mtt/pkg/model"
	"github.com/mtt-project/mtt/pkg/timefmt"
)

var (
	stopTime    string
	stopComment string
)

type stopResult struct {
	Timer           string            `json:"timer"`
	Record          model.TimerRecord `json:"record"`
	DurationSeconds int64             `json:"duration_seconds"`
	TotalSeconds    int64             `json:"total_seconds"`
}

var stopCmd = &cobra.Command{
	Use:   "stop [NAME]",
	Short: "Stop a timer and record the interval",
	Long: `Stop the named or active timer and append a record.

--stop-time accepts RFC3339, "YYYY-MM-DD HH:MM[:SS]", "HH:MM[:SS]" (today,
local time) or a negative offset such as "-15m".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current := now()
		end := current.UTC()
		if stopTime != "" {
			t, err := timefmt.ParseStopTime(stopTime, current)
			if err != nil {
				return err
			}
			end = t.UTC()
		}

		var res stopResult
		err := app.mutate(cmd.Context(), "stop", func(state *model.AppState) ([]event, error) {
			name, t, err := resolveTimer(state, args)
			if err != nil {
				return nil, err
			}
			rec, err := t.Stop(end, stopComment)
			if err != nil {
				return nil, err
			}
			res = stopResult{
				Timer:           name,
				Record:          *rec,
				DurationSeconds: int64(rec.Duration().Seconds()),
				TotalSeconds:    int64(t.TotalDuration().Seconds()),
			}
			return []event{{
				Type:  model.EventTimerStop,
				Timer: name,
				Details: map[string]any{
					"start":            rec.Start,
					"end":              rec.End,
					"duration_seconds": res.DurationSeconds,
					"comment":          rec.Comment,
				},
			}}, nil
		})
		if err != nil {
			return err
		}

		if res.Record.End.Before(res.Record.Start) {
			fmt.Fprintln(cmd.ErrOrStderr(), color.Warning("warning: stop time is before the start; the record counts as 0s"))
		}
		if jsonOutput {
			return outputJSON(cmd, res)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s Stopped %s after %s\n", color.Success("■"), color.Timer(res.Timer),
			color.Duration(timefmt.FormatDuration(res.Record.Duration())))
		fmt.Fprintf(out, "  total: %s\n", color.Duration(timefmt.FormatDuration(secondsToDuration(res.TotalSeconds))))
		return nil
	},
}

func init() {
	stopCmd.Flags().StringVar(&stopTime, "stop-time", "", "record this stop time instead of now")
	stopCmd.Flags().StringVarP(&stopComment, "comment", "m", "", "comment for the record")
	stopCmd.ValidArgsFunction = completeTimerNames
	rootCmd.AddCommand(stopCmd)
}
