package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/benaskins/gatekeep/internal/keychain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage policy-protected secrets in macOS Keychain",
}

// openStore builds the audited Keychain store for the policy selected by
// --policy. The returned close func releases the audit log.
func openStore(cmd *cobra.Command) (*keychain.AuditedStore, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	name, _ := cmd.Flags().GetString("policy")
	policy, err := cfg.Policy(name)
	if err != nil {
		return nil, nil, err
	}

	dir, err := gatekeepHome()
	if err != nil {
		return nil, nil, err
	}
	auditLog, err := openAuditLog()
	if err != nil {
		return nil, nil, err
	}
	meta, err := keychain.NewMetadataStore(filepath.Join(dir, "secret-metadata.json"))
	if err != nil {
		auditLog.Close()
		return nil, nil, err
	}

	inner := keychain.NewSystemStore(cfg.Service, policy, systemAuthority(auditLog, "cli"))
	store := keychain.NewAuditedStore(inner, auditLog, meta, "cli")
	return store, func() { auditLog.Close() }, nil
}

var secretSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Store a secret in the Keychain",
	Long:  "Store a secret under the selected policy. If value is omitted, reads from stdin (useful for piping).",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		var value string
		if len(args) == 2 {
			value = args[1]
		} else if term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Print("Enter secret value: ")
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			fmt.Println()
			value = string(b)
		} else {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			value = strings.TrimRight(string(b), "\n")
		}

		store, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := store.Set(key, value); err != nil {
			return err
		}
		meta := store.Metadata().Get(key)
		if meta.Protection == "none" {
			fmt.Printf("Secret %q stored without access-control protection\n", key)
		} else {
			fmt.Printf("Secret %q stored (%s [%s])\n", key, meta.Protection, meta.Options)
		}
		return nil
	},
}

var secretGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Retrieve a secret from the Keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		val, err := store.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(val)
		return nil
	},
}

var secretListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all secrets",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		store, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		keys, err := store.List()
		if err != nil {
			return err
		}
		all := store.Metadata().All()

		if jsonOut {
			out := make(map[string]*keychain.SecretMetadata, len(keys))
			for _, k := range keys {
				out[k] = all[k]
			}
			return printJSON(out)
		}
		if len(keys) == 0 {
			fmt.Println("No secrets stored")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tPROTECTION\tOPTIONS")
		for _, k := range keys {
			protection, options := "-", "-"
			if m, ok := all[k]; ok {
				protection, options = m.Protection, m.Options
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", k, protection, options)
		}
		return w.Flush()
	},
}

var secretDeleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Short:   "Remove a secret from the Keychain",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Secret %q deleted\n", args[0])
		return nil
	},
}

func init() {
	secretCmd.PersistentFlags().String("policy", "", "Policy profile from the config (default: default_policy)")

	secretCmd.AddCommand(secretSetCmd)
	secretCmd.AddCommand(secretGetCmd)
	secretCmd.AddCommand(secretListCmd)
	secretCmd.AddCommand(secretDeleteCmd)
	rootCmd.AddCommand(secretCmd)
}
