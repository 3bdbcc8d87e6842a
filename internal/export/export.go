// Package export flattens timer records into JSON, CSV or SQLite.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/mtt-project/mtt/internal/compression"
	"github.com/mtt-project/mtt/pkg/model"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV, FormatSQLite:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (must be json, csv, or sqlite)", s)
	}
}

// Row is one completed interval.
type Row struct {
	Timer           string    `json:"timer"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationSeconds int64     `json:"duration_seconds"`
	Comment         string    `json:"comment"`
}

var csvHeader = []string{"timer", "start", "end", "duration_seconds", "comment"}

// Rows flattens state into rows ordered by timer name then record order.
// When timer is non-empty only that timer is included.
func Rows(state *model.AppState, timer string) []Row {
	var rows []Row
	for _, name := range state.TimerNames() {
		if timer != "" && name != timer {
			continue
		}
		t, _ := state.GetTimer(name)
		for _, rec := range t.Records {
			rows = append(rows, Row{
				Timer:           name,
				Start:           rec.Start,
				End:             rec.End,
				DurationSeconds: int64(rec.Duration() / time.Second),
				Comment:         rec.Comment,
			})
		}
	}
	return rows
}

// Options controls Write and ToFile.
type Options struct {
	Format     Format
	Compressor *compression.Compressor
}

func (o Options) compressor() *compression.Compressor {
	if o.Compressor == nil {
		return compression.NewCompressor(compression.LevelNone)
	}
	return o.Compressor
}

// Write encodes rows to w in a streaming format (json or csv).
func Write(w io.Writer, rows []Row, opts Options) error {
	zw, err := opts.compressor().NewWriter(w)
	if err != nil {
		return err
	}

	switch opts.Format {
	case FormatJSON:
		err = writeJSON(zw, rows)
	case FormatCSV:
		err = writeCSV(zw, rows)
	case FormatSQLite:
		err = fmt.Errorf("sqlite export requires an output file")
	default:
		err = fmt.Errorf("unknown export format %q", opts.Format)
	}
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func writeJSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Timer,
			r.Start.Format(time.RFC3339),
			r.End.Format(time.RFC3339),
			strconv.FormatInt(r.DurationSeconds, 10),
			r.Comment,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// ToFile writes rows to path and returns the path actually written, which
// gains a .zst suffix when compressing.
func ToFile(ctx context.Context, path string, rows []Row, opts Options) (string, error) {
	if opts.Format == FormatSQLite {
		if opts.compressor().IsEnabled() {
			return "", fmt.Errorf("sqlite export cannot be compressed")
		}
		return path, WriteSQLite(ctx, path, rows)
	}

	if opts.compressor().IsEnabled() {
		path = compression.CompressedPath(path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := Write(f, rows, opts); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}
