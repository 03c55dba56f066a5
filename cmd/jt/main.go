package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jt-go/internal/app"
	"jt-go/internal/config"
)

func main() {
	// API keys usually live in .env next to where jt is run.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}
	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// newApp reads the config and creates a JTApp. The caller must defer closeApp.
// operation names the CLI command being run (e.g. "say", "app add").
func newApp(ctx context.Context, operation string, args []string) (*app.JTApp, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a, err := app.NewJTApp(ctx, cfg, operation, args)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// closeApp closes a and reports snapshot failures without masking the command's result.
func closeApp(a *app.JTApp) {
	if err := a.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

var rootCmd = &cobra.Command{
	Use:           "jt",
	Short:         "Personal job-search tracker",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(appCmd)
	rootCmd.AddCommand(factCmd)
	rootCmd.AddCommand(prepCmd)
	rootCmd.AddCommand(researchCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from config)")
}
