package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/weave-ui/weave/internal/config"
	"github.com/weave-ui/weave/internal/demo"
	"github.com/weave-ui/weave/pkg/devtools"
)

func inspectCmd(configDir *string) *cobra.Command {
	var (
		port     int
		host     string
		messages string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve the devtools inspector for the demo inbox",
		Long: `Mount the demo inbox and serve the devtools inspector.

Endpoints:
  GET  /dom         live document
  GET  /components  live components
  POST /dispatch    fire an event by hydration id
  GET  /metrics     Prometheus metrics
  GET  /stream      websocket lifecycle stream

Examples:
  weave inspect
  weave inspect --port=8080
  weave inspect --messages=https://example.com/inbox.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configDir)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Inspector.Port = port
			}
			if host != "" {
				cfg.Inspector.Host = host
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runInspect(ctx, cfg, messages)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from weave.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from weave.json)")
	cmd.Flags().StringVarP(&messages, "messages", "m", "", "URL of a JSON array of messages")

	return cmd
}

func runInspect(ctx context.Context, cfg *config.Config, messagesURL string) error {
	msgs, err := loadMessages(ctx, cfg, messagesURL)
	if err != nil {
		return err
	}

	app := newApp(cfg)
	defer app.Close()
	if _, err := demo.New(app, msgs); err != nil {
		return err
	}
	app.Ready()

	printBanner()
	fmt.Println("  inspect")
	fmt.Println()
	success("Inbox mounted with %d messages", len(msgs))
	info("Inspector: http://%s", cfg.InspectorAddress())
	fmt.Println()

	errc := make(chan error, 1)
	go func() {
		errc <- app.Run(ctx)
	}()

	inspector := devtools.New(app, devtools.WithLogger(app.Logger()))
	serveErr := inspector.ListenAndServe(ctx, cfg.InspectorAddress())
	app.Close()
	<-errc
	return serveErr
}
