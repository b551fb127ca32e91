package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/weave-ui/weave/internal/config"
	"github.com/weave-ui/weave/internal/demo"
	"github.com/weave-ui/weave/pkg/devtools"
)

func snapshotCmd(configDir *string) *cobra.Command {
	var (
		dir      string
		bucket   string
		messages string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write a snapshot of the demo inbox",
		Long: `Mount the demo inbox and write a snapshot of the document and the
live components, to a directory or to an S3 bucket.

S3 uploads read credentials from AWS_ACCESS_KEY_ID,
AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN.

Examples:
  weave snapshot
  weave snapshot --dir=/tmp/reports
  weave snapshot --bucket=bug-reports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configDir)
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.Snapshot.Dir = dir
			}
			if bucket != "" {
				cfg.Snapshot.Bucket = bucket
			}

			loc, err := runSnapshot(cmd.Context(), cfg, messages)
			if err != nil {
				return err
			}
			success("Snapshot written to %s", loc)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to write to (default from weave.json)")
	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "S3 bucket to upload to (default from weave.json)")
	cmd.Flags().StringVarP(&messages, "messages", "m", "", "URL of a JSON array of messages")

	return cmd
}

func sinkFor(cfg *config.Config) devtools.Sink {
	if cfg.UseS3() {
		client := devtools.NewS3Client(cfg.Snapshot.Region)
		return devtools.NewS3Sink(client, cfg.Snapshot.Bucket, cfg.Snapshot.Prefix)
	}
	return devtools.FileSink{Dir: cfg.Snapshot.Dir}
}

func runSnapshot(ctx context.Context, cfg *config.Config, messagesURL string) (string, error) {
	msgs, err := loadMessages(ctx, cfg, messagesURL)
	if err != nil {
		return "", err
	}

	app := newApp(cfg)
	defer app.Close()
	if _, err := demo.New(app, msgs); err != nil {
		return "", err
	}
	app.Ready()

	return devtools.Save(ctx, sinkFor(cfg), devtools.Take(app))
}
