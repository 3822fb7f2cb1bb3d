package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/arloliu/bindat/format"
	"github.com/arloliu/bindat/internal/config"
	"github.com/arloliu/bindat/internal/logger"
	"github.com/arloliu/bindat/store"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds the state shared by every subcommand.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string

	cfg config.Config
	log zerolog.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		cfg:    config.Default(),
		log:    zerolog.Nop(),
	}

	return &cli.Command{
		Name:      "bindat",
		Usage:     "Inspect, build, convert and serve bindat containers",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to a YAML or TOML config file",
				Destination: &a.configPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Value:       config.DefaultLogLevel,
				Destination: &a.logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "log format (console, json)",
				Value:       config.DefaultLogFormat,
				Destination: &a.logFormat,
			},
		},
		Before: a.before,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			a.inspectCmd(),
			a.dumpCmd(),
			a.packCmd(),
			a.convertCmd(),
			a.serveCmd(),
			versionCmd(),
		},
	}
}

// before loads the config file and builds the logger. Flags override config
// values only when set explicitly.
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error
	if cmd.IsSet("config") {
		a.cfg, err = config.Load(a.configPath)
	} else {
		a.cfg, err = config.LoadOptional(config.DefaultPath())
	}
	if err != nil {
		return ctx, err
	}

	if cmd.IsSet("log-level") {
		a.cfg.LogLevel = a.logLevel
	}
	if cmd.IsSet("log-format") {
		a.cfg.LogFormat = a.logFormat
	}

	a.log, err = logger.New("bindat", a.cfg.LogLevel, a.cfg.LogFormat, a.stderr)
	if err != nil {
		return ctx, err
	}

	return a.log.WithContext(ctx), nil
}

// compression resolves the whole-file compression for an output file: the
// flag wins, then the config file, then the output extension.
func (a *app) compression(cmd *cli.Command, flagValue string) ([]store.Option, error) {
	value := a.cfg.Compression
	if cmd.IsSet("compression") {
		value = flagValue
	}
	if value == "" {
		return nil, nil
	}

	ct, err := format.ParseCompressionType(value)
	if err != nil {
		return nil, err
	}

	return []store.Option{store.WithCompression(ct)}, nil
}

// readOptions returns the store options used for every input file.
func (a *app) readOptions() []store.Option {
	return []store.Option{
		store.WithDecoderOptions(a.cfg.DecoderOptions()...),
		store.WithLogger(a.log),
	}
}

// requireArgs fails unless cmd got exactly n positional arguments.
func requireArgs(cmd *cli.Command, n int, usage string) error {
	if cmd.Args().Len() != n {
		return fmt.Errorf("usage: bindat %s %s", cmd.Name, usage)
	}

	return nil
}
