package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
)

// longRunning commands log at info level and print startup details.
var longRunning = map[string]bool{
	config.CmdServe: true,
	config.CmdGUI:   true,
}

// flagKeys maps command-line flags onto settings keys; an explicit flag wins
// over the YAML file and the environment.
var flagKeys = map[string]string{
	config.FlagPolicy:   "order_policy",
	config.FlagPort:     "server.port",
	config.FlagFile:     "source.path",
	config.FlagURL:      "source.url",
	config.FlagUser:     "source.user",
	config.FlagPassword: "source.password",
}

// cli carries the state shared by every subcommand.
type cli struct {
	debug      bool
	configPath string
	logToFile  bool

	viper    *viper.Viper
	settings config.Settings
	clock    engine.Clock
	fetcher  engine.VCardFetcher
	closer   io.Closer
}

func newCLI() *cli {
	return &cli{
		logToFile: true,
		viper:     config.NewViper(),
		clock:     engine.RealClock{},
		fetcher:   engine.NewHTTPFetcher(),
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:               config.CmdRoot,
		Short:             config.ShortRoot,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) { c.close() },
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&c.debug, config.FlagDebug, false, config.FlagDescDebug)
	flags.StringVar(&c.configPath, config.FlagConfig, "", config.FlagDescConfig)
	flags.String(config.FlagPolicy, config.DefaultPolicy, config.FlagDescPolicy)

	root.AddCommand(
		c.extractCmd(),
		c.ageCmd(),
		c.adultCmd(),
		c.monthsCmd(),
		c.listenCmd(),
		c.contactsCmd(),
		c.serveCmd(),
		c.guiCmd(),
		versionCmd(),
	)
	return root
}

// setup initializes logging and loads settings before any subcommand runs.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if longRunning[cmd.Name()] {
		level = slog.LevelInfo
	}

	opts := logOptions{Level: level, Debug: c.debug}
	if c.logToFile {
		if path, err := defaultLogPath(); err == nil {
			opts.File = path
		}
	}
	logger, closer := newLogger(cmd.ErrOrStderr(), opts)
	slog.SetDefault(logger)
	c.closer = closer

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := c.viper.BindPFlag(key, f); err != nil {
				return fmt.Errorf("%s: %w", config.ErrSettingsLoad, err)
			}
		}
	}

	s, err := config.LoadSettings(c.viper, c.configPath)
	if err != nil {
		return err
	}
	c.settings = s

	slog.Debug(config.MsgSettingsLoaded,
		config.LogKeyComponent, config.CompCLI,
		config.LogKeyPolicy, s.OrderPolicy,
		config.LogKeyPort, s.Server.Port,
		config.LogKeyMode, s.Source.Mode,
	)

	if longRunning[cmd.Name()] {
		logStartupInfo()
	}
	return nil
}

// close releases the log file. It is safe to call more than once.
func (c *cli) close() {
	if c.closer != nil {
		_ = c.closer.Close()
		c.closer = nil
	}
}

// calculator returns the engine calculator for the loaded order policy.
func (c *cli) calculator() (engine.Calculator, error) {
	policy, err := engine.ParseOrderPolicy(c.settings.OrderPolicy)
	if err != nil {
		return engine.Calculator{}, err
	}
	return engine.Calculator{Policy: policy}, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdVersion,
		Short: config.ShortVersion,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}
