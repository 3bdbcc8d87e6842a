package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtt-project/mtt/internal/journal"
	"github.com/mtt-project/mtt/internal/store"
	"github.com/mtt-project/mtt/pkg/color"
	"github.com/mtt-project/mtt/pkg/config"
	"github.com/mtt-project/mtt/pkg/errclass"
	"github.com/mtt-project/mtt/pkg/logging"
	"github.com/mtt-project/mtt/pkg/model"
	"github.com/mtt-project/mtt/pkg/pathutil"
)

const configEnv = "MTT_CONFIG"

// now is the clock used by every command.
var now = time.Now

// appContext is the per-invocation wiring built by setupApp.
type appContext struct {
	cfg        *config.Config
	configPath string

	store   *store.Store
	journal *journal.Journal
}

var app = &appContext{cfg: config.Default()}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	if p := os.Getenv(configEnv); p != "" {
		return p, nil
	}
	return pathutil.DefaultConfigPath()
}

func setupApp(cmd *cobra.Command, _ []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return fmt.Errorf("locate config: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return errclass.ErrConfigInvalid.WithMessage(err.Error())
	}
	if verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewLogger(level)
	logger.SetFormat(logging.Format(cfg.Logging.Format))
	logger.SetOutput(cmd.ErrOrStderr())
	logging.SetGlobal(logger)

	color.Init(noColor)
	if noColor {
		color.Disable()
	}
	if cfg.OutputFormat == "json" {
		jsonOutput = true
	}

	app = &appContext{cfg: cfg, configPath: path}
	logging.Debug("config loaded", map[string]any{"path": path, "command": cmd.CommandPath()})
	return nil
}

// openStore resolves the data directory and opens the state store and
// journal on first use.
func (a *appContext) openStore() (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	dir, err := pathutil.AppDataDir(a.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(dir, store.Options{
		LockEnabled: a.cfg.Lock.Enabled,
		LockPolicy: model.LockPolicy{
			LeaseTTL:     a.cfg.Lock.Lease,
			RetryTimeout: a.cfg.Lock.Timeout,
			RetryEvery:   model.DefaultLockPolicy().RetryEvery,
		},
	})
	if err != nil {
		return nil, err
	}
	a.store = st
	if a.cfg.Journal.Enabled {
		a.journal = journal.New(st.JournalPath())
	}
	logging.Debug("store opened", map[string]any{"dir": dir})
	return st, nil
}

// loadState reads the state without taking the lock.
func (a *appContext) loadState() (*model.AppState, error) {
	st, err := a.openStore()
	if err != nil {
		return nil, err
	}
	return st.Load()
}

// event is a journal entry to write once a mutation is committed.
type event struct {
	Type    model.EventType
	Timer   string
	Details map[string]any
}

// mutate runs fn inside a locked session. State is saved only when fn
// succeeds; journal events are appended after the save.
func (a *appContext) mutate(ctx context.Context, purpose string, fn func(*model.AppState) ([]event, error)) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	sess, err := st.Begin(ctx, purpose)
	if err != nil {
		return err
	}
	defer sess.Close()

	events, err := fn(sess.State)
	if err != nil {
		return err
	}
	if err := sess.Commit(); err != nil {
		return err
	}
	a.record(events)
	return nil
}

func (a *appContext) record(events []event) {
	if a.journal == nil {
		return
	}
	for _, ev := range events {
		if _, err := a.journal.Append(ev.Type, ev.Timer, ev.Details); err != nil {
			logging.Warn("journal append failed", map[string]any{"event": string(ev.Type), "error": err.Error()})
			return
		}
	}
}

// resolveTimer picks the named timer, or the active one when args is empty.
func resolveTimer(state *model.AppState, args []string) (string, *model.Timer, error) {
	if len(args) > 0 && args[0] != "" {
		name := args[0]
		t, ok := state.GetTimer(name)
		if !ok {
			return "", nil, errclass.ErrNoSuchTimer.WithMessagef("no timer named '%s'. %s", name, suggestTimers(name, state.TimerNames()))
		}
		return name, t, nil
	}
	name, ok := state.ActiveTimerName()
	if !ok {
		return "", nil, errclass.ErrNoActiveTimer.WithMessagef("no active timer; pass a NAME or run %s", color.Code("mtt use NAME"))
	}
	t, _ := state.GetTimer(name)
	return name, t, nil
}

func fmtErr(format string, args ...any) {
	prefix := "mtt: "
	if color.Enabled() {
		prefix = color.Error("mtt:") + " "
	}
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}
