package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vango-dev/routegen/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// colorEnabled is false when stdout is not a terminal.
var colorEnabled = true

// logger is configured by the root command's persistent flags.
var logger = slog.Default()

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		colorEnabled = false
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		errors.DisableColors()
	}

	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

type rootFlags struct {
	config  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	var root rootFlags
	gen := &generateFlags{}

	rootCmd := &cobra.Command{
		Use:   "routegen",
		Short: "Generate typed path builders from file-based route directories",
		Long: `routegen scans a directory of file-based routes and generates a typed
path builder for it.

Every directory holding a route marker (route.ts, page.tsx, ...) is a route.
Bracketed names are parameters:

  app/api/users/[userId]/route.ts   →  Routes.Users().UserId("7")  // "/api/users/7"

Running routegen without a command is the same as routegen generate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if root.verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, &root, gen)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&root.config, "config", "c", "", "Config file (default: search upward from the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&root.verbose, "verbose", "v", false, "Verbose logging")
	gen.register(rootCmd)

	rootCmd.AddCommand(
		generateCmd(&root),
		treeCmd(&root),
		listCmd(&root),
		pathCmd(&root),
		initCmd(),
		versionCmd(),
	)
	return rootCmd
}

func paint(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + "\033[0m"
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("%s %s\n", paint("\033[32m", "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("%s %s\n", paint("\033[33m", "⚠"), fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", paint("\033[31m", "✗"), fmt.Sprintf(format, args...))
}
