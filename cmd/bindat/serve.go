package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/bindat/internal/server"
)

func (a *app) serveCmd() *cli.Command {
	var dir, addr string

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a directory of containers over a read-only HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "directory holding container files", Destination: &dir},
			&cli.StringFlag{Name: "addr", Usage: "listen address", Destination: &addr},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if !cmd.IsSet("dir") {
				dir = a.cfg.Serve.Dir
			}
			if !cmd.IsSet("addr") {
				addr = a.cfg.Serve.Addr
			}

			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}

			readTimeout, err := a.cfg.Serve.Timeout()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(dir, a.log, a.cfg.DecoderOptions()...).Start(ctx, addr, readTimeout)
		},
	}
}
