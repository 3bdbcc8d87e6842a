package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtt-project/mtt/internal/compression"
	"github.com/mtt-project/mtt/internal/export"
)

var (
	exportFormat   string
	exportOutput   string
	exportCompress bool
	exportLevel    string
	exportTimer    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export completed records",
	Long: `Export every completed record as JSON, CSV or a SQLite database.

JSON and CSV go to stdout unless --output is given and can be compressed
with zstd (--compress); compressed files get a .zst suffix. SQLite needs
--output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		opts := export.Options{Format: format}
		if exportCompress {
			c, err := compression.NewCompressorFromString(exportLevel)
			if err != nil {
				return err
			}
			opts.Compressor = c
		}

		state, err := app.loadState()
		if err != nil {
			return err
		}
		if exportTimer != "" {
			if _, _, err := resolveTimer(state, []string{exportTimer}); err != nil {
				return err
			}
		}
		rows := export.Rows(state, exportTimer)

		if exportOutput == "" {
			if format == export.FormatSQLite {
				return fmt.Errorf("sqlite export needs --output")
			}
			return export.Write(cmd.OutOrStdout(), rows, opts)
		}

		written, err := export.ToFile(cmd.Context(), exportOutput, rows, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d %s to %s\n", len(rows), plural(len(rows), "record", "records"), written)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format: json, csv or sqlite")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to this file instead of stdout")
	exportCmd.Flags().BoolVar(&exportCompress, "compress", false, "compress with zstd")
	exportCmd.Flags().StringVar(&exportLevel, "level", "default", "compression level: fast, default or max")
	exportCmd.Flags().StringVar(&exportTimer, "timer", "", "export only this timer")
	rootCmd.AddCommand(exportCmd)
}
