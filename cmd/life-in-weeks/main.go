package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
	"github.com/tartampluch/life-in-weeks/internal/metrics"
	"github.com/tartampluch/life-in-weeks/internal/server"
	"github.com/tartampluch/life-in-weeks/internal/ui"
)

// main delegates to runMain so that deferred calls (like closing the log file)
// run before os.Exit.
func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout, os.Stderr))
}

// options are the parsed command line flags.
type options struct {
	version   bool
	debug     bool
	dob       string
	targetAge int
	print     bool
	density   string
}

// parseFlags reads args into options. Help and bad flags are reported on stderr.
func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.BoolVar(&o.version, config.FlagVersion, false, config.FlagDescVersion)
	fs.BoolVar(&o.debug, config.FlagDebug, false, config.FlagDescDebug)
	fs.StringVar(&o.dob, config.FlagDOB, "", config.FlagDescDOB)
	fs.IntVar(&o.targetAge, config.FlagTargetAge, 0, config.FlagDescTargetAge)
	fs.BoolVar(&o.print, config.FlagPrint, false, config.FlagDescPrint)
	fs.StringVar(&o.density, config.FlagDensity, config.DefaultDensity, config.FlagDescDensity)

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

// runMain manages the application lifecycle and returns the process exit code.
func runMain(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return config.ExitCodeSuccess
		}
		return config.ExitCodeUsage
	}

	if opts.version {
		printVersion(stdout)
		return config.ExitCodeSuccess
	}

	// Print mode writes the report to stdout, so logs go to stderr there.
	logOut := stdout
	if opts.print {
		logOut = stderr
	}
	logCloser := setupLogging(opts.debug, logOut)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	if opts.print {
		if err := printLife(stdout, opts, engine.RealClock{}); err != nil {
			fmt.Fprintln(stderr, err)
			return config.ExitCodeUsage
		}
		return config.ExitCodeSuccess
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires dependencies and blocks in the fyne main loop.
func run(ctx context.Context, opts options) error {
	a := app.NewWithID(config.AppID)
	prefs := a.Preferences()

	prefs.SetString(config.PrefLastRun, config.Version)
	if opts.targetAge != 0 {
		if err := engine.ValidateTargetAge(opts.targetAge); err != nil {
			return err
		}
		prefs.SetInt(config.PrefTargetAge, opts.targetAge)
	}
	if opts.density != "" {
		d, err := ui.ParseDensity(opts.density)
		if err != nil {
			return err
		}
		prefs.SetString(config.PrefDensity, string(d))
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	port := prefs.StringWithFallback(config.PrefServerPort, config.DefaultPort)
	srv := server.NewLifeServer(port, m, reg)
	importer := &engine.Importer{Fetcher: engine.NewHTTPFetcher()}
	life := &engine.Life{Clock: engine.RealClock{}, Observer: m}

	gui := ui.NewLifeWeeksApp(a, ctx, srv, importer, life, engine.NewEventStore())

	if opts.dob != "" {
		birth, err := engine.ParseBirthDate(opts.dob)
		if err != nil {
			return err
		}
		gui.InitialProfile = &engine.Profile{Name: config.FallbackName, BirthDate: birth}
	}

	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	gui.Run()
	return nil
}

// printLife validates the flags, then writes the stats and the text grid.
func printLife(w io.Writer, opts options, clock engine.Clock) error {
	if opts.dob == "" {
		return fmt.Errorf("%w: -%s is required with -%s", engine.ErrInvalidConfiguration, config.FlagDOB, config.FlagPrint)
	}
	birth, err := engine.ParseBirthDate(opts.dob)
	if err != nil {
		return err
	}
	density, err := ui.ParseDensity(opts.density)
	if err != nil {
		return fmt.Errorf("%w: %w", engine.ErrInvalidConfiguration, err)
	}

	targetAge := opts.targetAge
	if targetAge == 0 {
		targetAge = config.DefaultTargetAge
	}

	life := &engine.Life{Clock: clock}
	snap, err := life.Snapshot(engine.Profile{Name: config.FallbackName, BirthDate: birth}, targetAge)
	if err != nil {
		return err
	}
	return ui.RenderText(w, snap, density)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging installs a JSON slog logger writing to out and, when possible,
// to a log file in the user cache directory.
func setupLogging(debugMode bool, out io.Writer) io.Closer {
	writers := []io.Writer{out}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
