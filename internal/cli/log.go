package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mtt-project/mtt/internal/journal"
	"github.com/mtt-project/mtt/pkg/color"
	"github.com/mtt-project/mtt/pkg/model"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log [NAME]",
	Short: "Show the history of timer changes",
	Long: `Show journal events, oldest first. With NAME only that timer's events
are shown; -n keeps the last N.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.openStore(); err != nil {
			return err
		}
		if app.journal == nil {
			return fmt.Errorf("journal is disabled (journal.enabled=false)")
		}

		filter := journal.Filter{Limit: logLimit}
		if len(args) > 0 {
			filter.Timer = args[0]
		}
		events, err := app.journal.Read(filter)
		if err != nil {
			return err
		}

		if jsonOutput {
			if events == nil {
				events = []model.JournalEvent{}
			}
			return outputJSON(cmd, events)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No events.")
			return nil
		}
		for _, ev := range events {
			fmt.Fprintf(out, "%s  %-15s %s%s\n",
				color.Dim(ev.Timestamp.Local().Format(app.cfg.TimeFormat)),
				ev.EventType, color.Timer(ev.Timer), formatDetails(ev.Details))
		}
		return nil
	},
}

func formatDetails(details map[string]any) string {
	if len(details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := details[k]
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + color.Dim(strings.Join(parts, " "))
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 0, "show only the last N events")
	logCmd.ValidArgsFunction = completeTimerNames
	rootCmd.AddCommand(logCmd)
}
