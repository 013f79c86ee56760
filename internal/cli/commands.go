package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/floatui/internal/app"
	"github.com/riordanpawley/floatui/internal/config"
	"github.com/riordanpawley/floatui/internal/core/placement"
	"github.com/riordanpawley/floatui/internal/domain"
	"github.com/riordanpawley/floatui/internal/services/affix"
)

// Dependencies holds everything the commands need
type Dependencies struct {
	Config *config.Config
	// ConfigPath is the file the config came from, empty for defaults
	ConfigPath string
	Logger     *slog.Logger

	logFile *os.File
}

// NewDependencies loads the config and sets up logging. An empty configPath
// searches the working directory. logPath overrides the configured log file;
// with neither set, logs are discarded since the TUI owns the terminal.
func NewDependencies(configPath, logPath string) (*Dependencies, error) {
	if configPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		configPath = config.Find(cwd)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	deps := &Dependencies{Config: cfg, ConfigPath: configPath}

	if logPath == "" {
		logPath = cfg.Log.File
	}
	var out io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		deps.logFile = f
		out = f
	}
	deps.Logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.LogLevel()}))

	return deps, nil
}

// Close releases the log file
func (d *Dependencies) Close() error {
	if d.logFile == nil {
		return nil
	}
	err := d.logFile.Close()
	d.logFile = nil
	return err
}

// RunCommand starts the interactive demo and blocks until it exits. The
// config file, when there is one, is watched and reloaded live.
func RunCommand(ctx context.Context, deps *Dependencies) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var reloads <-chan config.Reload
	if deps.ConfigPath != "" {
		ch, err := config.Watch(ctx, deps.ConfigPath, deps.Logger)
		if err != nil {
			deps.Logger.Warn("config watch disabled", "path", deps.ConfigPath, "error", err)
		} else {
			reloads = ch
		}
	}

	deps.Logger.Info("starting demo", "config", deps.ConfigPath)
	program := tea.NewProgram(
		app.New(deps.Config, reloads, deps.Logger),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run demo: %w", err)
	}
	return nil
}

// InitCommand writes the default config to path. The format follows the
// extension. An existing file is only replaced with force.
func InitCommand(w io.Writer, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
	}

	if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
		return err
	}

	fmt.Fprintf(w, "✓ Wrote default config to %s\n", filepath.Clean(path))
	return nil
}

// PlaceOptions describes one placement question
type PlaceOptions struct {
	Viewport domain.Size
	Trigger  domain.Rect
	Content  domain.Size
}

// PlaceCommand resolves where content would float next to a trigger using
// the configured placement settings and prints the outcome
func PlaceCommand(w io.Writer, deps *Dependencies, opts PlaceOptions) error {
	if opts.Viewport.W <= 0 || opts.Viewport.H <= 0 {
		return fmt.Errorf("viewport %dx%d: %w", opts.Viewport.W, opts.Viewport.H, domain.ErrOutOfRange)
	}
	if opts.Content.W <= 0 || opts.Content.H <= 0 {
		return fmt.Errorf("content %dx%d: %w", opts.Content.W, opts.Content.H, domain.ErrOutOfRange)
	}

	cfg := deps.Config
	affixer := affix.NewCellAffixer(opts.Viewport.W, opts.Viewport.H, deps.Logger)
	req := cfg.Request()
	h := affixer.AffixTo(opts.Trigger, opts.Content, affix.Config{
		Placement: req.Preferred,
		Alignment: req.Alignment,
		AutoFit:   req.AutoFit,
		Sticky:    req.Sticky,
		Gap:       cfg.Placement.Gap,
	})
	defer h.Destroy()

	resolver := placement.NewResolver(cfg.Placement.AllowFullscreen)
	if cfg.Placement.ArrowTolerance > 0 {
		resolver.Tolerance = cfg.Placement.ArrowTolerance
	}
	result := resolver.Resolve(placement.Input{
		Placement: h.Placement(),
		Content:   h.Rect(),
		Trigger:   h.Target(),
		Viewport:  h.Viewport(),
	})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "PREFERRED\t%s\n", req.Preferred)
	fmt.Fprintf(tw, "PLACEMENT\t%s\n", result.Placement)
	fmt.Fprintf(tw, "VISIBLE\t%t\n", result.Visible)
	if result.Visible {
		fmt.Fprintf(tw, "RECT\t%s\n", result.Rect())
	}
	if result.Arrow.Visible {
		fmt.Fprintf(tw, "ARROW\t%d,%d\n", result.Arrow.Left, result.Arrow.Top)
	}
	return tw.Flush()
}

// ParseSize parses "WxH"
func ParseSize(s string) (domain.Size, error) {
	var size domain.Size
	if _, err := fmt.Sscanf(s, "%dx%d", &size.W, &size.H); err != nil {
		return domain.Size{}, fmt.Errorf("invalid size %q, want WxH: %w", s, err)
	}
	return size, nil
}

// ParseRect parses "X,Y,W,H"
func ParseRect(s string) (domain.Rect, error) {
	var r domain.Rect
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &r.X, &r.Y, &r.W, &r.H); err != nil {
		return domain.Rect{}, fmt.Errorf("invalid rect %q, want X,Y,W,H: %w", s, err)
	}
	return r, nil
}
