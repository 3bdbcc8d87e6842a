package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtt-project/mtt/pkg/color"
	"github.com/mtt-project/mtt/pkg/model"
	"github.com/mtt-project/mtt/pkg/pathutil"
)

var startCreate bool

var startCmd = &cobra.Command{
	Use:   "start [NAME]",
	Short: "Start a timer",
	Long: `Start the named timer, or the active timer when NAME is omitted.

Starting a named timer also makes it the active timer. With --create the
timer is created first if it does not exist yet.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if startCreate && len(args) == 0 {
			return fmt.Errorf("--create needs a timer NAME")
		}
		if len(args) > 0 {
			if err := pathutil.ValidateTimerName(args[0]); err != nil {
				return err
			}
		}

		at := now().UTC()
		var name string
		err := app.mutate(cmd.Context(), "start", func(state *model.AppState) ([]event, error) {
			var events []event
			if startCreate {
				if _, ok := state.GetTimer(args[0]); !ok {
					if _, err := state.CreateTimer(args[0]); err != nil {
						return nil, err
					}
					events = append(events, event{Type: model.EventTimerCreate, Timer: args[0]})
				}
			}

			n, t, err := resolveTimer(state, args)
			if err != nil {
				return nil, err
			}
			if err := t.Start(at); err != nil {
				return nil, err
			}
			events = append(events, event{Type: model.EventTimerStart, Timer: n, Details: map[string]any{"at": at}})

			if len(args) > 0 {
				prev, _ := state.ActiveTimerName()
				if err := state.SetTimerActive(n); err != nil {
					return nil, err
				}
				if prev != n {
					events = append(events, event{Type: model.EventTimerActivate, Timer: n})
				}
			}
			name = n
			return events, nil
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd, map[string]any{"timer": name, "started_at": at})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Started %s at %s\n",
			color.Success("▶"), color.Timer(name), at.Local().Format(app.cfg.TimeFormat))
		return nil
	},
}

func init() {
	startCmd.Flags().BoolVarP(&startCreate, "create", "c", false, "create the timer if it does not exist")
	startCmd.ValidArgsFunction = completeTimerNames
	rootCmd.AddCommand(startCmd)
}
