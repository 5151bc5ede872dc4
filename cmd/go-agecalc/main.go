// Command go-agecalc computes ages between dates from typed or spoken input,
// serves the calculator over HTTP and runs the desktop front-end.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/tartampluch/go-agecalc/internal/config"
)

func main() {
	os.Exit(runMain())
}

// runMain is split from main so deferred cleanup runs before os.Exit.
func runMain() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newCLI()
	defer c.close()

	if err := newRootCmd(c).ExecuteContext(ctx); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err)
		return config.ExitCodeError
	}
	return config.ExitCodeSuccess
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput, config.AppName, config.Version, runtime.GOOS, runtime.GOARCH)
}

func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			config.LogKeyApp, config.AppName,
			config.LogKeyVersion, config.Version,
			config.LogKeyGoVer, runtime.Version(),
		),
		slog.Group(config.LogKeyEnv,
			config.LogKeyOS, runtime.GOOS,
			config.LogKeyArch, runtime.GOARCH,
			config.LogKeyPID, os.Getpid(),
		),
	)
}

// logOptions selects where and how much the process logs.
type logOptions struct {
	Level slog.Level
	// Debug forces debug level and adds source locations.
	Debug bool
	// File, when set, receives a copy of every record; it is truncated on open.
	File string
}

// newLogger builds a JSON logger writing to console and, when possible, to
// opts.File. The returned closer is nil when no file is open.
func newLogger(console io.Writer, opts logOptions) (*slog.Logger, io.Closer) {
	level := opts.Level
	if opts.Debug {
		level = slog.LevelDebug
	}

	out := console
	var file *os.File
	if opts.File != "" {
		f, err := openLogFile(opts.File)
		if err != nil {
			fmt.Fprintf(console, config.MsgLogWarning, config.ErrLogFile, opts.File, err)
		} else {
			file = f
			out = io.MultiWriter(console, f)
		}
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:     level,
		AddSource: opts.Debug,
	}))
	if file == nil {
		return logger, nil
	}
	return logger, file
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
}

// defaultLogPath places the log file in the per-user cache directory.
func defaultLogPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}
	return filepath.Join(dir, config.AppID, config.LogFileName), nil
}
