package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/weave-ui/weave/internal/config"
)

func versionCmd(configDir *string) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and effective configuration",
		Long: `Print the weave version together with the configuration the other
commands would run with: the weave.json in use, the inspector address
and where snapshots go.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version)
				return nil
			}

			cfg, err := config.Load(*configDir)
			if err != nil {
				return err
			}
			source := cfg.Path()
			if source == "" {
				source = "defaults (no " + config.ConfigFileName + " in " + *configDir + ")"
			}

			fmt.Fprint(out, banner)
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  Version:    %s (%s, %s)\n", version, commit, date)
			fmt.Fprintf(out, "  Go version: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(out, "  Config:     %s\n", source)
			fmt.Fprintf(out, "  Log:        %s, %s\n", cfg.Log.Level, cfg.Log.Format)
			fmt.Fprintf(out, "  Inspector:  http://%s\n", cfg.InspectorAddress())
			fmt.Fprintf(out, "  Transport:  %d retries, %s timeout\n", cfg.Transport.Tries, cfg.Transport.Timeout)
			fmt.Fprintf(out, "  Snapshots:  %s\n", snapshotTarget(cfg))
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}

// snapshotTarget describes where runSnapshot writes.
func snapshotTarget(cfg *config.Config) string {
	if cfg.UseS3() {
		return fmt.Sprintf("s3://%s/%s (%s)", cfg.Snapshot.Bucket, cfg.Snapshot.Prefix, cfg.Snapshot.Region)
	}
	return cfg.Snapshot.Dir
}
