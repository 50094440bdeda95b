package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/approute/internal/config"
	"github.com/vango-dev/approute/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌─┐┌─┐┬─┐┌─┐┬ ┬┌┬┐┌─┐
  ├─┤├─┘├─┘├┬┘│ ││ │ │ ├┤
  ┴ ┴┴  ┴  ┴└─└─┘└─┘ ┴ └─┘
`

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
	noColor    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "approute",
		Short: "File-system routing toolkit",
		Long: `approute turns an app directory into a route tree.

Directory names follow the app router conventions:

  about          static segment        /about
  [id]           dynamic segment       /:id
  [...slug]      catch-all             /*slug
  [[...slug]]    optional catch-all    /*slug?
  (group)        route group           (no URL segment)
  @slot          parallel route slot   (no URL segment)

A page.go or route.go file marks a directory as a route leaf.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), flags.verbose)
			if flags.noColor {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to approute.json (default: search from the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		initCmd(),
		parseCmd(),
		scanCmd(flags),
		matchCmd(flags),
		devCmd(flags),
		publishCmd(flags),
		versionCmd(),
	)

	return rootCmd
}

// setupLogging installs the default slog logger.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadConfig loads the configuration named by --config, or searches upwards
// from the working directory. Without any approute.json the defaults are
// used relative to the working directory.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	if flags.configPath != "" {
		return config.LoadFile(flags.configPath)
	}

	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		if e := errors.Classify(err); e.Code == "C001" {
			return config.New(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
