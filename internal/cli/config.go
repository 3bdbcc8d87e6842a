package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtt-project/mtt/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config <command>",
	Short: "Manage mtt configuration",
	Long: `Manage the mtt configuration file (default <config dir>/mtt/config.yaml).

Configuration options:
  data_dir          - Directory holding state, lock and journal files
  output_format     - Default output format (text, json)
  time_format       - Go time layout for printed times
  logging.level     - debug, info, warn, error
  logging.format    - text, json
  lock.enabled      - Serialize concurrent invocations (true, false)
  lock.timeout      - How long to wait for the state lock (e.g. 5s)
  lock.lease        - Age after which a held lock is considered stale
  journal.enabled   - Record every change in journal.jsonl (true, false)

Every key can be overridden with an MTT_ environment variable, dots
replaced by underscores (MTT_DATA_DIR, MTT_LOCK_TIMEOUT, ...).`,
	DisableFlagsInUseLine: true,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return outputJSON(cmd, app.cfg)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "# mtt configuration")
		fmt.Fprintf(out, "# Location: %s\n\n", app.configPath)
		for _, key := range config.Keys {
			value, err := app.cfg.Get(key)
			if err != nil {
				return err
			}
			if value == "" {
				value = "(not set)"
			}
			fmt.Fprintf(out, "%s: %s\n", key, value)
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := app.cfg.Get(args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cmd, map[string]string{args[0]: value})
		}
		if value == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (not set)\n", args[0])
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Examples:
  mtt config set output_format json
  mtt config set lock.timeout 10s
  mtt config set data_dir ~/Dropbox/mtt`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		// Environment overrides must not leak into the file.
		cfg, err := config.LoadFile(app.configPath)
		if err != nil {
			return err
		}
		if err := cfg.Set(key, value); err != nil {
			return err
		}
		if err := config.Save(app.configPath, cfg); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd, map[string]string{key: value})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

func completeConfigKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.Keys, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	configGetCmd.ValidArgsFunction = completeConfigKeys
	configSetCmd.ValidArgsFunction = completeConfigKeys
	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
