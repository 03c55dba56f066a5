package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jt-go/internal/api"
	"jt-go/internal/app"
	"jt-go/internal/jt"
)

var sayCmd = &cobra.Command{
	Use:   "say UTTERANCE...",
	Short: "Record something in plain words",
	Long: `Route a plain-language command. Examples:

  jt say "Applied to Stripe for Backend Engineer"
  jt say "Phone screen with Stripe tomorrow at 2pm"
  jt say "Remember that Stripe values written communication"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		text := strings.Join(args, " ")
		a, err := newApp(ctx, "say", []string{text})
		if err != nil {
			return err
		}
		defer closeApp(a)

		out, err := a.Say(ctx, text)
		if err != nil {
			return err
		}
		fmt.Println(out.Message())
		if out.Kind == jt.OutcomeRejected {
			return fmt.Errorf("command rejected")
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd.Context(), "history", nil)
		if err != nil {
			return err
		}
		defer closeApp(a)

		ops, err := a.Service().GetHistory(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt != nil {
				duration = op.FinishedAt.Sub(op.StartedAt).Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-12s  %s  %-8s  %-8s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Local().Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
				truncate(op.Parameters, 60),
			)
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore OUTPUT",
	Short: "Restore the database snapshot from the vault",
	Long: `Download this host's encrypted database snapshot, decrypt it and write it
to OUTPUT. Move the file into the data directory to use it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pass, err := readPassphrase("Snapshot passphrase: ")
		if err != nil {
			return err
		}
		if err := app.Restore(cmd.Context(), cfg, args[0], pass); err != nil {
			return err
		}
		fmt.Printf("Restored database to %s\n", args[0])
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, "serve", nil)
		if err != nil {
			return err
		}
		defer closeApp(a)
		// Commands served over HTTP change the database, so the session is journaled.
		if err := a.Mutating(ctx); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}

		fmt.Printf("Listening on http://%s\n", addr)
		if err := api.NewServer(a.Service(), cfg.Server, a.Logger()).Run(ctx, addr); err != nil {
			a.Fail(err)
			return err
		}
		return nil
	},
}
