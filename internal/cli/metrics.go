package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtt-project/mtt/pkg/metrics"
)

var metricsTextfile string

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print timer metrics in Prometheus text format",
	Long: `Render every timer as Prometheus gauges.

With --textfile the metrics are written atomically to a .prom file for the
node_exporter textfile collector, e.g. from cron:

  * * * * * mtt metrics --textfile /var/lib/node_exporter/mtt.prom

Exposed metrics (label "timer"):
- mtt_timer_total_seconds, mtt_timer_current_seconds
- mtt_timer_running, mtt_timer_active, mtt_timer_records
- mtt_timers, mtt_generated_timestamp_seconds`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := app.loadState()
		if err != nil {
			return err
		}

		reg := metrics.NewRegistry()
		reg.Observe(state, now())

		if metricsTextfile == "" {
			return reg.Write(cmd.OutOrStdout())
		}
		if err := reg.WriteTextfile(metricsTextfile); err != nil {
			return err
		}
		if !jsonOutput {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", metricsTextfile)
		}
		return nil
	},
}

func init() {
	metricsCmd.Flags().StringVar(&metricsTextfile, "textfile", "", "write to this .prom file instead of stdout")
	rootCmd.AddCommand(metricsCmd)
}
