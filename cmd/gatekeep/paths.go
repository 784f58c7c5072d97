package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/benaskins/gatekeep/internal/access"
	"github.com/benaskins/gatekeep/internal/audit"
	"github.com/benaskins/gatekeep/internal/config"
	"github.com/spf13/cobra"
)

// gatekeepHome returns the path to the gatekeep home directory (~/.gatekeep),
// creating it if needed.
func gatekeepHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".gatekeep")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	return dir, nil
}

func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultPath()
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(configPath(cmd))
}

func openAuditLog() (*audit.Logger, error) {
	dir, err := gatekeepHome()
	if err != nil {
		return nil, err
	}
	return audit.NewLogger(filepath.Join(dir, "audit.log"))
}

// systemAuthority returns the platform authority, audited under actor.
func systemAuthority(log *audit.Logger, actor string) access.Authority {
	return audit.WrapAuthority(access.SystemAuthority(), log, actor)
}
