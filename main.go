package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"PageMarkup/internal/config"
	"PageMarkup/internal/editor"
	"PageMarkup/internal/logger"
	"PageMarkup/internal/net"
	"PageMarkup/internal/ui"
	"PageMarkup/internal/viewport"
)

const discoverTimeout = 3 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	build := logger.New().WithLevel(cfg.Level()).Console(true)
	if cfg.LogFile != "" {
		build = build.FromPath(cfg.LogFile)
	}
	logData, err := build.Make()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logData.Close()
	log := logData.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	view := viewport.NewImageDocument(log)
	switch {
	case cfg.Discover:
		err = discover(ctx, log)
	case cfg.Serve:
		err = serve(ctx, cfg, view, log)
	default:
		ui.Run(ctx, cfg, view, log)
	}
	if err != nil {
		log.Error().Err(err).Msg("exiting")
		logData.Close()
		os.Exit(1)
	}
}

func discover(ctx context.Context, log zerolog.Logger) error {
	return net.Browse(ctx, discoverTimeout, log, func(url string) {
		fmt.Println(url)
	})
}

// serve runs the headless editor behind the websocket transport until ctx
// is cancelled.
func serve(ctx context.Context, cfg *config.Config, view viewport.Adapter, log zerolog.Logger) error {
	ed := editor.New(
		editor.WithIDs(cfg.IDGenerator()),
		editor.WithViewport(view),
		editor.WithScroller(&viewport.Scroll{}),
		editor.WithLogger(log),
		editor.WithTool(cfg.StartTool()),
	)
	if cfg.Document != "" {
		data, err := os.ReadFile(cfg.Document)
		if err != nil {
			return err
		}
		if _, err := ed.LoadDocument(ctx, data); err != nil {
			return err
		}
	}

	srv := net.NewServer(ed, log)
	bound := make(chan int, 1)
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe(ctx, cfg.Listen, bound) }()

	select {
	case err := <-errc:
		return err
	case port := <-bound:
		log.Info().Str("url", net.URL(net.OutgoingIP(log), port)).Msg("serving")
		if cfg.MDNS {
			adv, err := net.Advertise(cfg.Instance, port, log)
			if err != nil {
				log.Warn().Err(err).Msg("mDNS advertisement failed")
			} else {
				defer adv.Shutdown()
			}
		}
	}
	return <-errc
}
