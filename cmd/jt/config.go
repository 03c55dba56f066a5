package main

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"jt-go/internal/app"
	"jt-go/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and snapshot keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		hostID := uuid.New().String()
		cfg := config.NewConfig(hostID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Host ID: %s\n", hostID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])

		skipKeys, _ := cmd.Flags().GetBool("no-keys")
		if skipKeys {
			return nil
		}
		pass, err := readPassphrase("Passphrase for snapshot key: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Repeat passphrase: ")
		if err != nil {
			return err
		}
		if pass != confirm {
			return fmt.Errorf("passphrases do not match; run `jt config init` again after removing %s", defaults["config_path"])
		}
		if err := app.SetupEncryption(cfg, pass); err != nil {
			return err
		}
		fmt.Printf("Snapshot key written to %s\n", cfg.Encryption.PublicKeyPath)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Host ID:    %s\n", cfg.HostID)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Database:   %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Extractor:  %s %s\n", cfg.Extractor.Type, cfg.Extractor.Model)
		fmt.Printf("Encryption: %s\n", cfg.Encryption.Type)
		for _, v := range cfg.Vaults {
			fmt.Printf("Vault:      %s (%s)\n", v.Name, v.Type)
		}
		fmt.Printf("Profile:    %s, timezone %q\n", cfg.Profile.Name, cfg.Profile.Timezone)
		aliases := make([]string, 0, len(cfg.Profile.CompanyAliases))
		for alias := range cfg.Profile.CompanyAliases {
			aliases = append(aliases, alias)
		}
		sort.Strings(aliases)
		for _, alias := range aliases {
			fmt.Printf("  alias %s -> %s\n", alias, cfg.Profile.CompanyAliases[alias])
		}
		fmt.Printf("Server:     %s\n", cfg.Server.Addr)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("no-keys", false, "Skip generating the snapshot encryption key")
	configCmd.AddCommand(configListCmd)
}
