// Package ui implements the venuegrid command line.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/venuegrid/internal/api"
	"github.com/javiermolinar/venuegrid/internal/board"
	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/config"
	"github.com/javiermolinar/venuegrid/internal/dateutil"
	"github.com/javiermolinar/venuegrid/internal/db"
	"github.com/javiermolinar/venuegrid/internal/hours"
	"github.com/javiermolinar/venuegrid/internal/logging"
	"github.com/javiermolinar/venuegrid/internal/metrics"
	"github.com/javiermolinar/venuegrid/internal/schedule"
	"github.com/javiermolinar/venuegrid/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// ErrNeedsSQLite is returned by commands that manage venue data directly.
var ErrNeedsSQLite = errors.New("this command needs the sqlite storage backend")

// App holds the CLI application state.
type App struct {
	repo    booking.Repository
	store   *db.SQLite // nil unless the sqlite backend is open
	config  *config.Config
	root    *cobra.Command
	debug   bool // Enable debug logging
	noColor bool

	log      zerolog.Logger
	logFile  *os.File
	rdb      *redis.Client
	recorder *metrics.Recorder
	out      io.Writer
	now      func() time.Time
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repository is opened from the config on first use.
func NewApp(repo booking.Repository, cfg *config.Config) *App {
	a := &App{
		repo:     repo,
		config:   cfg,
		log:      zerolog.Nop(),
		recorder: metrics.New(),
		out:      os.Stdout,
		now:      time.Now,
	}
	if s, ok := repo.(*db.SQLite); ok {
		a.store = s
	}

	a.root = &cobra.Command{
		Use:   "venuegrid",
		Short: "A booking board for multi-room venues",
		Long: `Venuegrid shows the bookings of every room on one scheduling grid.

Run without a command to open the interactive board: move bookings between
rooms and times, swap them, and resize them from the keyboard.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.noColor {
				DisableColor()
			}
			return a.setupLogging(cmd == a.root)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runBoard()
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (JSON to a temp file)")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.roomsCmd())
	a.root.AddCommand(a.hoursCmd())
	a.root.AddCommand(a.bookCmd())
	a.root.AddCommand(a.cancelCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.statusCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.resizeCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.slotsCmd())
	a.root.AddCommand(a.gridCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.serveCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(a.out, "venuegrid %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the backend and the log file.
func (a *App) Close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.rdb != nil {
		errs = append(errs, a.rdb.Close())
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}
	return errors.Join(errs...)
}

// setupLogging builds the logger. The interactive board owns the terminal,
// so it only logs when a file is configured or --debug is set.
func (a *App) setupLogging(interactive bool) error {
	opts := logging.Options{Level: a.config.Log.Level, Format: a.config.Log.Format}

	path := a.config.Log.File
	if a.debug {
		opts.Level = "debug"
		opts.Format = "json"
		if path == "" {
			path = filepath.Join(os.TempDir(), "venuegrid-debug.log")
		}
	}

	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		a.logFile = f
		opts.Output = f
	case interactive:
		a.log = zerolog.Nop()
		return nil
	}

	a.log = logging.New(opts)
	return nil
}

// ensureRepo opens the configured storage backend.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}

	switch a.config.Storage.Backend {
	case config.BackendAPI:
		opts := []api.ClientOption{
			api.WithHTTPClient(&http.Client{Timeout: a.config.Timeout()}),
			api.WithRetries(uint64(max(a.config.API.Retries, 0)), 200*time.Millisecond),
			api.WithLogger(a.log),
		}
		if addr := a.config.Redis.Address; addr != "" {
			a.rdb = redis.NewClient(&redis.Options{
				Addr:     addr,
				Password: a.config.Redis.Password,
				DB:       a.config.Redis.DB,
			})
			opts = append(opts, api.WithRedisCache(a.rdb, a.config.CacheTTL()))
		}
		a.repo = api.NewClient(a.config.API.BaseURL, opts...)
		a.log.Debug().Str("base_url", a.config.API.BaseURL).Bool("redis", a.rdb != nil).Msg("using api backend")

	default:
		path, err := resolvePath(a.config.Storage.DBPath)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		store, err := db.New(path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		a.repo = store
		a.store = store
		a.log.Debug().Str("path", path).Msg("using sqlite backend")
	}
	return nil
}

// requireStore returns the SQLite store for commands that edit venue data.
func (a *App) requireStore() (*db.SQLite, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	if a.store == nil {
		return nil, ErrNeedsSQLite
	}
	return a.store, nil
}

// resolver returns the business hours. With SQLite, hours saved in the
// database win over the config file and overrides from both apply.
func (a *App) resolver(ctx context.Context) (*hours.Weekly, error) {
	week := a.config.Week()
	overrides := a.config.Overrides()

	if a.store != nil {
		stored, err := a.store.Hours(ctx, week)
		if err != nil {
			return nil, err
		}
		for i := range week {
			week[i] = stored.ForWeekday(i)
		}
		overrides = append(overrides, stored.Overrides()...)
	}
	w, err := hours.NewWeekly(week, overrides...)
	if err != nil {
		return nil, fmt.Errorf("business hours: %w", err)
	}
	return w, nil
}

// newBoard opens the backend and loads a board for date.
func (a *App) newBoard(ctx context.Context, date time.Time) (*board.Board, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	res, err := a.resolver(ctx)
	if err != nil {
		return nil, err
	}
	b := board.New(board.Options{
		Hours:     res,
		Cache:     schedule.New(a.repo, a.log, a.recorder),
		Repo:      a.repo,
		Settings:  a.config.GridSettings(),
		Date:      date,
		Threshold: a.config.Grid.DragThreshold,
		Logger:    a.log,
	})
	return b, nil
}

func (a *App) runBoard() error {
	ctx := context.Background()
	b, err := a.newBoard(ctx, a.now())
	if err != nil {
		return err
	}
	if c, ok := a.repo.(*api.Client); ok {
		pingCtx, cancel := context.WithTimeout(ctx, a.config.Timeout())
		err := c.HealthCheck(pingCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("booking service at %s: %w", a.config.API.BaseURL, err)
		}
	}

	err = tui.Run(b, a.repo, a.config,
		tui.WithLogger(a.log),
		tui.WithTimeout(a.config.Timeout()),
	)
	hits, misses := b.LayoutStats()
	a.recorder.LayoutStats(hits, misses)
	a.log.Debug().Int("layout_hits", hits).Int("layout_misses", misses).Msg("board closed")
	return err
}

// parseDate parses a --date flag relative to today.
func (a *App) parseDate(s string) (time.Time, error) {
	d, err := dateutil.ParseDate(s, a.now())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %w", err)
	}
	return d, nil
}

// findBooking resolves a booking ID or a unique ID prefix.
func (a *App) findBooking(ctx context.Context, ref string) (booking.Booking, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return booking.Booking{}, fmt.Errorf("%w: empty id", booking.ErrBookingNotFound)
	}
	all, err := a.repo.ListBookings(ctx, time.Unix(0, 0), time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return booking.Booking{}, fmt.Errorf("listing bookings: %w", err)
	}

	var matches []booking.Booking
	for _, b := range all {
		if b.ID == ref {
			return b, nil
		}
		if strings.HasPrefix(b.ID, ref) {
			matches = append(matches, b)
		}
	}
	switch len(matches) {
	case 0:
		return booking.Booking{}, fmt.Errorf("%w: %s", booking.ErrBookingNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return booking.Booking{}, fmt.Errorf("booking id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// findRoom resolves a room by ID or case-insensitive name.
func findRoom(rooms []booking.Room, ref string) (booking.Room, error) {
	if r, ok := booking.FindRoom(rooms, ref); ok {
		return r, nil
	}
	for _, r := range rooms {
		if strings.EqualFold(r.Name, ref) {
			return r, nil
		}
	}
	return booking.Room{}, fmt.Errorf("%w: %s", booking.ErrRoomNotFound, ref)
}
