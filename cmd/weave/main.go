package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/weave-ui/weave/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦ ╦┌─┐┌─┐┬  ┬┌─┐
  ║║║├┤ ├─┤└┐┌┘├┤
  ╚╩╝└─┘┴ ┴ └┘ └─┘
`

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configDir   string
	errorFormat string
	noColor     bool
}

func main() {
	flags := &globalFlags{}
	if err := rootCmd(flags).Execute(); err != nil {
		printError(os.Stderr, err, flags.errorFormat)
		os.Exit(1)
	}
}

func rootCmd(flags *globalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "weave",
		Short: "A small component rendering engine",
		Long: `Weave renders components from string templates into a live document.

Placeholders such as %{ name }% and %{ Item({"id":1}) }% are resolved
against component properties, and updates rebuild only the component
whose properties changed.

This CLI mounts a demo inbox to explore the engine:

  • weave inspect   serve the devtools inspector
  • weave snapshot  write a document snapshot to disk or S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.noColor || os.Getenv("NO_COLOR") != "" {
				errors.DisableColors()
			} else {
				errors.EnableColors()
			}
			switch flags.errorFormat {
			case "pretty", "compact", "json":
				return nil
			}
			format := flags.errorFormat
			flags.errorFormat = "pretty"
			return errors.New("W602").WithDetailf("%q", format)
		},
	}
	root.PersistentFlags().StringVarP(&flags.configDir, "config", "c", ".", "Directory containing weave.json")
	root.PersistentFlags().StringVar(&flags.errorFormat, "error-format", "pretty", "Error output: pretty, compact or json")
	root.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		inspectCmd(&flags.configDir),
		snapshotCmd(&flags.configDir),
		versionCmd(&flags.configDir),
	)
	return root
}

// printError writes err to w in the requested format. Errors without a
// code are reported as W601.
func printError(w io.Writer, err error, format string) {
	switch format {
	case "json", "compact":
		e := errors.FromError(err, "W601")
		if e.Detail == "" && e.Wrapped != nil {
			e.WithDetail(e.Wrapped.Error())
		}
		if format == "json" {
			fmt.Fprintln(w, e.FormatJSON())
		} else {
			fmt.Fprintln(w, e.FormatCompact())
		}
	default:
		errors.Fprint(w, err)
	}
}

// printBanner prints the weave ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
