package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sheetkit/sheets-mcp/internal/config"
	"github.com/sheetkit/sheets-mcp/internal/outfmt"
	"github.com/sheetkit/sheets-mcp/internal/secrets"
	"github.com/sheetkit/sheets-mcp/internal/ui"
)

var newSecretsStore = secrets.OpenDefault

func newAuthCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage service-account credentials in the OS keyring",
	}
	cmd.AddCommand(newAuthImportCmd(cfg))
	cmd.AddCommand(newAuthListCmd(cfg))
	cmd.AddCommand(newAuthRemoveCmd(cfg))
	return cmd
}

func newAuthImportCmd(cfg *config.Config) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <key.json>",
		Short: "Store a service-account key in the keyring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := ui.FromContext(cmd.Context())

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var key struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(data, &key); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			if key.Type != "service_account" {
				return fmt.Errorf("%s is not a service account key (type %q)", args[0], key.Type)
			}

			store, err := newSecretsStore(cfg.KeyringBackend)
			if err != nil {
				return err
			}
			if err := store.Set(name, secrets.Credential{Name: name, JSON: data}); err != nil {
				return err
			}

			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.WriteJSON(os.Stdout, map[string]any{"imported": name})
			}
			u.Out().Printf("Imported credential %q", name)
			u.Err().Printf("# Use it: export %s=%s%s", config.EnvServiceAccountFile, config.KeyringPrefix, name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "default", "Name to store the credential under")
	return cmd
}

func newAuthListCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u := ui.FromContext(cmd.Context())

			store, err := newSecretsStore(cfg.KeyringBackend)
			if err != nil {
				return err
			}
			names, err := store.Names()
			if err != nil {
				return err
			}

			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.WriteJSON(os.Stdout, map[string]any{"credentials": names})
			}

			if len(names) == 0 {
				u.Err().Println("No stored credentials")
				return nil
			}
			for _, n := range names {
				u.Out().Println(n)
			}
			return nil
		},
	}
}

func newAuthRemoveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a stored credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := ui.FromContext(cmd.Context())

			store, err := newSecretsStore(cfg.KeyringBackend)
			if err != nil {
				return err
			}
			if err := store.Delete(args[0]); err != nil {
				return err
			}

			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.WriteJSON(os.Stdout, map[string]any{"removed": args[0]})
			}
			u.Out().Printf("Removed credential %q", args[0])
			return nil
		},
	}
}
