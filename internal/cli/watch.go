package cli

import (
	"github.com/spf13/cobra"

	"github.com/mtt-project/mtt/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live view of all timers",
	Long: `Open a full-screen view of all timers that ticks every second and
refreshes whenever another mtt invocation changes the state file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := app.openStore()
		if err != nil {
			return err
		}
		return tui.Run(cmd.Context(), st.StatePath(), st.Load)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
