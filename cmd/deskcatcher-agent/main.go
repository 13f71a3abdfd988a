// Command deskcatcher-agent is the remote-desktop client: it captures the
// primary display, streams it to a collection server, and replays
// inbound pointer commands locally.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deskcatcher/agent/internal/capture"
	"github.com/deskcatcher/agent/internal/command"
	"github.com/deskcatcher/agent/internal/config"
	"github.com/deskcatcher/agent/internal/input"
	"github.com/deskcatcher/agent/internal/logging"
	"github.com/deskcatcher/agent/internal/session"
	"github.com/deskcatcher/agent/internal/supervisor"
	"github.com/deskcatcher/agent/internal/tray"
)

var (
	version = "dev"
	log     = logging.L("main")
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "deskcatcher-agent",
		Short: "Remote-desktop streaming client",
	}

	var serverHost, cfgFile string

	run := &cobra.Command{
		Use:   "run",
		Short: "Start capturing and streaming the primary display",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(cfgFile, serverHost)
		},
	}
	run.Flags().StringVarP(&serverHost, "server", "s", "", "collection server host (overrides config)")
	run.Flags().StringVar(&cfgFile, "config", "", "path to a config file")
	root.AddCommand(run)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version)
			return nil
		},
	})

	return root
}

func runAgent(cfgFile, serverHost string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serverHost != "" {
		cfg.ServerHost = serverHost
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogFile != "" {
		rw, err := logging.NewRotatingWriter(cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer rw.Close()
		logOutput = logging.TeeWriter(os.Stdout, rw)
		watchForReopen(rw)
	}
	logging.Init(cfg.LogFormat, cfg.LogLevel, logOutput)

	log.Info("starting", "version", version, "server", cfg.ServerHost)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mgr := session.New(cfg)
	// The collection server may simply not be up yet at agent boot, so the
	// initial connect retries with the same backoff as a mid-session
	// reconnect rather than failing the process outright.
	if err := mgr.Reconnect(ctx); err != nil {
		return fmt.Errorf("initial connect: %w", err)
	}
	defer mgr.Shutdown()

	inputHandler := input.New()

	cursor, err := capture.NewCursorCompositor(inputHandler)
	if err != nil {
		log.Warn("cursor overlay unavailable, frames will not show the pointer", logging.KeyError, err)
		cursor = nil
	}

	screenCapturer, err := capture.NewScreenCapturer()
	if err != nil {
		return fmt.Errorf("initialize screen capture: %w", err)
	}

	captureLoop := capture.NewLoop(
		screenCapturer,
		capture.NewDeltaEncoder(),
		cursor,
		mgr.Gate,
		time.Duration(cfg.IdleCaptureIntervalSeconds)*time.Second,
	)
	commandLoop := command.New(mgr.Gate, inputHandler, mgr.StatusLine)

	var trayPresence tray.Presence
	if cfg.TrayEnabled {
		trayPresence = tray.New()
		trayPresence.OnAction(mgr.Shutdown)
		defer trayPresence.Close()
	}

	sup := supervisor.New(mgr, captureLoop, commandLoop)

	go func() {
		<-mgr.Done()
		cancel()
	}()

	if err := sup.Run(ctx); err != nil && err != context.Canceled {
		return fmt.Errorf("supervisor: %w", err)
	}

	log.Info("shutting down")
	return nil
}

// watchForReopen reopens rw on SIGHUP, so an external log rotator can
// move the file aside without this process holding a stale descriptor.
func watchForReopen(rw *logging.RotatingWriter) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			if err := rw.Reopen(); err != nil {
				log.Warn("log reopen failed", "path", rw.Path(), logging.KeyError, err)
			}
		}
	}()
}
