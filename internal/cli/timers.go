package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtt-project/mtt/pkg/color"
	"github.com/mtt-project/mtt/pkg/errclass"
	"github.com/mtt-project/mtt/pkg/model"
	"github.com/mtt-project/mtt/pkg/pathutil"
)

var newActivate bool

var newCmd = &cobra.Command{
	Use:   "new NAME",
	Short: "Create a timer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := pathutil.ValidateTimerName(name); err != nil {
			return err
		}

		err := app.mutate(cmd.Context(), "new", func(state *model.AppState) ([]event, error) {
			if _, err := state.CreateTimer(name); err != nil {
				return nil, err
			}
			events := []event{{Type: model.EventTimerCreate, Timer: name}}
			if newActivate {
				if err := state.SetTimerActive(name); err != nil {
					return nil, err
				}
				events = append(events, event{Type: model.EventTimerActivate, Timer: name})
			}
			return events, nil
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd, map[string]any{"timer": name, "active": newActivate})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created timer %s\n", color.Timer(name))
		return nil
	},
}

var useCmd = &cobra.Command{
	Use:   "use NAME",
	Short: "Make a timer the active timer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		err := app.mutate(cmd.Context(), "use", func(state *model.AppState) ([]event, error) {
			if _, ok := state.GetTimer(name); !ok {
				return nil, errclass.ErrNoSuchTimer.WithMessagef("no timer named '%s'. %s", name, suggestTimers(name, state.TimerNames()))
			}
			if err := state.SetTimerActive(name); err != nil {
				return nil, err
			}
			return []event{{Type: model.EventTimerActivate, Timer: name}}, nil
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd, map[string]any{"active_timer": name})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active timer is now %s\n", color.Timer(name))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all timers",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := app.loadState()
		if err != nil {
			return err
		}
		at := now()
		views := viewAll(state, at)
		if jsonOutput {
			return outputJSON(cmd, views)
		}
		printTimerTable(cmd.OutOrStdout(), views, at)
		printTimerSummary(cmd.OutOrStdout(), state)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm NAME",
	Short:   "Remove a timer and its records",
	Aliases: []string{"remove"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		var records int
		err := app.mutate(cmd.Context(), "rm", func(state *model.AppState) ([]event, error) {
			t, ok := state.GetTimer(name)
			if !ok {
				return nil, errclass.ErrNoSuchTimer.WithMessagef("no timer named '%s'. %s", name, suggestTimers(name, state.TimerNames()))
			}
			records = len(t.Records)
			if err := state.RemoveTimer(name); err != nil {
				return nil, err
			}
			return []event{{Type: model.EventTimerRemove, Timer: name, Details: map[string]any{"records": records}}}, nil
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd, map[string]any{"timer": name, "removed_records": records})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed timer %s (%d %s)\n", color.Timer(name), records, plural(records, "record", "records"))
		return nil
	},
}

func init() {
	newCmd.Flags().BoolVar(&newActivate, "activate", false, "also make the new timer active")
	useCmd.ValidArgsFunction = completeTimerNames
	rmCmd.ValidArgsFunction = completeTimerNames
	rootCmd.AddCommand(newCmd, useCmd, listCmd, rmCmd)
}
