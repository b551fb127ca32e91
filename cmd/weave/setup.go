package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/weave-ui/weave/internal/config"
	"github.com/weave-ui/weave/internal/demo"
	"github.com/weave-ui/weave/pkg/component"
	"github.com/weave-ui/weave/pkg/telemetry"
	"github.com/weave-ui/weave/pkg/transport"
)

// newApp builds an App configured from cfg.
func newApp(cfg *config.Config) *component.App {
	opts := []component.Option{
		component.WithLogger(cfg.Logger(os.Stderr)),
		component.WithMetrics(telemetry.NewMetrics()),
	}
	if cfg.Tracing.Enabled {
		opts = append(opts, component.WithTracer(telemetry.NewTracer()))
	}
	return component.NewApp(opts...)
}

// loadMessages fetches the inbox from url, or returns the built-in
// messages when url is empty.
func loadMessages(ctx context.Context, cfg *config.Config, url string) ([]demo.Message, error) {
	if url == "" {
		return demo.Messages, nil
	}
	client := transport.NewClient(
		transport.WithTries(cfg.Transport.Tries),
		transport.WithTimeout(cfg.Transport.Timeout),
		transport.WithLogger(cfg.Logger(os.Stderr)),
	)
	resp, err := client.Get(url).Send(ctx).Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}

	var messages []demo.Message
	if err := json.Unmarshal([]byte(resp.Text), &messages); err != nil {
		return nil, fmt.Errorf("decode messages from %s: %w", url, err)
	}
	return messages, nil
}
