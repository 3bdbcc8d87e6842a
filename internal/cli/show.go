package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mtt-project/mtt/pkg/color"
	"github.com/mtt-project/mtt/pkg/model"
	"github.com/mtt-project/mtt/pkg/timefmt"
)

var showAll bool

// timerView is the machine-readable summary of one timer.
type timerView struct {
	Name           string     `json:"name"`
	Active         bool       `json:"active"`
	Running        bool       `json:"running"`
	Since          *time.Time `json:"since,omitempty"`
	CurrentSeconds int64      `json:"current_seconds"`
	TotalSeconds   int64      `json:"total_seconds"`
	Records        int        `json:"records"`
}

func viewTimer(state *model.AppState, name string, at time.Time) timerView {
	t, _ := state.GetTimer(name)
	active, _ := state.ActiveTimerName()
	return timerView{
		Name:           name,
		Active:         name == active,
		Running:        t.IsRunning(),
		Since:          t.CurrentStart,
		CurrentSeconds: int64(t.Elapsed(at).Seconds()),
		TotalSeconds:   int64(t.TotalDuration().Seconds()),
		Records:        len(t.Records),
	}
}

func viewAll(state *model.AppState, at time.Time) []timerView {
	views := make([]timerView, 0, len(state.Timers))
	for _, name := range state.TimerNames() {
		views = append(views, viewTimer(state, name, at))
	}
	return views
}

func secondsToDuration(s int64) time.Duration {
	return time.Duration(s) * time.Second
}

var showCmd = &cobra.Command{
	Use:   "show [NAME]",
	Short: "Show running and total time",
	Long: `Show the running duration and total of the named or active timer.

All timers are shown with --all, or when no NAME is given and no timer is
active.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := app.loadState()
		if err != nil {
			return err
		}
		at := now()

		if showAll || (len(args) == 0 && !state.HasActiveTimer()) {
			views := viewAll(state, at)
			if jsonOutput {
				return outputJSON(cmd, views)
			}
			printTimerTable(cmd.OutOrStdout(), views, at)
			printTimerSummary(cmd.OutOrStdout(), state)
			return nil
		}

		name, _, err := resolveTimer(state, args)
		if err != nil {
			return err
		}
		v := viewTimer(state, name, at)
		if jsonOutput {
			return outputJSON(cmd, v)
		}
		printTimerDetail(cmd.OutOrStdout(), v, at)
		return nil
	},
}

func printTimerDetail(out io.Writer, v timerView, at time.Time) {
	title := color.Timer(v.Name)
	if v.Active {
		title += color.Dim(" (active)")
	}
	fmt.Fprintln(out, title)
	if v.Running {
		fmt.Fprintf(out, "  running: %s %s\n",
			color.Duration(timefmt.FormatDuration(secondsToDuration(v.CurrentSeconds))),
			color.Dim("(started "+humanize.RelTime(*v.Since, at, "ago", "from now")+")"))
	} else {
		fmt.Fprintf(out, "  running: %s\n", color.Dim("no"))
	}
	fmt.Fprintf(out, "  total:   %s (%s h, %d %s)\n",
		color.Duration(timefmt.FormatDuration(secondsToDuration(v.TotalSeconds))),
		timefmt.Hours(secondsToDuration(v.TotalSeconds)),
		v.Records, plural(v.Records, "record", "records"))
}

func printTimerTable(out io.Writer, views []timerView, at time.Time) {
	if len(views) == 0 {
		fmt.Fprintf(out, "No timers yet. Create one with %s.\n", color.Code("mtt start -c NAME"))
		return
	}

	width := len("TIMER")
	for _, v := range views {
		if len(v.Name) > width {
			width = len(v.Name)
		}
	}

	fmt.Fprintln(out, color.Header(fmt.Sprintf("  %-*s  %-8s  %-14s  %s", width, "TIMER", "STATE", "TOTAL", "RUNNING")))
	for _, v := range views {
		marker := "  "
		if v.Active {
			marker = color.Success("*") + " "
		}
		state, running := "idle", "-"
		if v.Running {
			state = "running"
			running = timefmt.FormatDuration(secondsToDuration(v.CurrentSeconds)) +
				" (" + humanize.RelTime(*v.Since, at, "ago", "from now") + ")"
		}
		fmt.Fprintf(out, "%s%-*s  %-8s  %-14s  %s\n", marker, width, v.Name, state,
			timefmt.FormatDuration(secondsToDuration(v.TotalSeconds)), running)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	showCmd.Flags().BoolVarP(&showAll, "all", "a", false, "show all timers")
	showCmd.ValidArgsFunction = completeTimerNames
	rootCmd.AddCommand(showCmd)
}

// printTimerSummary prints the timer count and which timers are running.
func printTimerSummary(out io.Writer, state *model.AppState) {
	names := state.TimerNames()
	if len(names) == 0 {
		return
	}
	running := state.RunningTimers()
	line := fmt.Sprintf("%d %s, %d running", len(names), plural(len(names), "timer", "timers"), len(running))
	if len(running) > 0 {
		line += ": " + strings.Join(running, ", ")
	}
	fmt.Fprintln(out, color.Dim(line))
}
