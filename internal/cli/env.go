package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sadopc/streakr/internal/challenge"
	"github.com/sadopc/streakr/internal/config"
	"github.com/sadopc/streakr/internal/notify"
	"github.com/sadopc/streakr/internal/session"
	"github.com/sadopc/streakr/internal/store"
	"github.com/sadopc/streakr/internal/tasks"
)

// env is everything one command invocation needs.
type env struct {
	cfg  *config.Config
	db   *store.Store
	sess *session.Session
}

func openEnv(opts *options, n notify.Notifier) (*env, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}

	db, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	ts, err := tasks.New(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	tr, err := challenge.New(db, challenge.SystemClock, challenge.WithWindow(cfg.ChallengeWindow))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load challenge: %w", err)
	}

	sess := session.New(ts, tr, n,
		session.WithResetOnComplete(db.GetBoolSetting("reset_on_complete", true)),
	)
	return &env{cfg: cfg, db: db, sess: sess}, nil
}

func (e *env) close() {
	e.db.Close()
}

// printer writes non-error events as plain lines. Errors are returned from
// the command and printed once by Execute.
func printer(w io.Writer) notify.Notifier {
	return notify.NotifierFunc(func(ev notify.Event) {
		if ev.Severity == notify.Danger {
			return
		}
		fmt.Fprintln(w, notify.Describe(ev))
	})
}

// lastSaved describes when the snapshot under key was written, or "never".
func (e *env) lastSaved(key string, now time.Time) (string, error) {
	snap, ok, err := e.db.GetSnapshot(key)
	if err != nil || !ok {
		return "never", err
	}
	return humanize.RelTime(snap.UpdatedAt, now, "ago", "from now"), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
