package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/benaskins/gatekeep/internal/access"
	"github.com/benaskins/gatekeep/internal/config"
	"github.com/spf13/cobra"
)

type checkResult struct {
	Name       string `json:"name,omitempty"`
	Protection string `json:"protection"`
	Options    string `json:"options"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and test access-control policies",
}

var policyCheckCmd = &cobra.Command{
	Use:   "check [name]",
	Short: "Ask the Keychain to create an access-control object for a policy",
	Long: "Build a policy from a configured profile, or from --protection and --option, " +
		"and ask the platform to materialize it. Exits non-zero if the platform rejects it.",
	Args: cobra.MaximumNArgs(1),
	RunE: runPolicyCheck,
}

var policyListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List configured policies",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		type row struct {
			Name       string `json:"name"`
			Protection string `json:"protection"`
			Options    string `json:"options"`
			Default    bool   `json:"default"`
		}
		var rows []row
		for _, name := range cfg.PolicyNames() {
			p, err := cfg.Policy(name)
			if err != nil {
				return err
			}
			rows = append(rows, row{
				Name:       name,
				Protection: p.Protection().String(),
				Options:    p.Options().String(),
				Default:    name == cfg.DefaultPolicy,
			})
		}

		if jsonOut {
			return printJSON(rows)
		}
		if len(rows) == 0 {
			fmt.Println("No policies configured")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPROTECTION\tOPTIONS\tDEFAULT")
		for _, r := range rows {
			def := ""
			if r.Default {
				def = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Protection, r.Options, def)
		}
		return w.Flush()
	},
}

var policyWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-check every configured policy whenever the config file changes",
	RunE:  runPolicyWatch,
}

func init() {
	policyCheckCmd.Flags().String("protection", "", "Protection level (see 'gatekeep protections')")
	policyCheckCmd.Flags().StringSlice("option", nil, "Option flag, repeatable or comma-separated (see 'gatekeep flags')")

	policyCmd.AddCommand(policyCheckCmd)
	policyCmd.AddCommand(policyListCmd)
	policyCmd.AddCommand(policyWatchCmd)
	rootCmd.AddCommand(policyCmd)
}

// policyFromFlags builds a policy from --protection/--option when either is
// set, otherwise from the named (or default) profile.
func policyFromFlags(cmd *cobra.Command, name string) (access.Policy, error) {
	protectionFlag, _ := cmd.Flags().GetString("protection")
	optionFlags, _ := cmd.Flags().GetStringSlice("option")

	if protectionFlag == "" && len(optionFlags) == 0 {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return access.Policy{}, err
		}
		return cfg.Policy(name)
	}
	if name != "" {
		return access.Policy{}, errors.New("a policy name cannot be combined with --protection or --option")
	}
	return config.PolicySpec{Protection: protectionFlag, Options: optionFlags}.Resolve()
}

func checkPolicy(authority access.Authority, name string, p access.Policy) checkResult {
	r := checkResult{Name: name, Protection: p.Protection().String(), Options: p.Options().String()}
	h, err := p.Create(authority)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	h.Release()
	r.OK = true
	return r
}

func runPolicyCheck(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")

	var name string
	if len(args) > 0 {
		name = args[0]
	}
	p, err := policyFromFlags(cmd, name)
	if err != nil {
		return err
	}

	auditLog, err := openAuditLog()
	if err != nil {
		return err
	}
	defer auditLog.Close()

	r := checkPolicy(systemAuthority(auditLog, "cli"), name, p)

	if jsonOut {
		if err := printJSON(r); err != nil {
			return err
		}
	} else if r.OK {
		fmt.Printf("OK    %s\n", p)
	} else {
		fmt.Fprintf(os.Stderr, "FAIL  %s\n      %s\n", p, r.Error)
	}

	if !r.OK {
		return fmt.Errorf("policy %s rejected", p)
	}
	return nil
}

func runPolicyWatch(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)
	logger := slog.With("component", "policy-watch")

	auditLog, err := openAuditLog()
	if err != nil {
		return err
	}
	defer auditLog.Close()
	authority := systemAuthority(auditLog, "watch")

	checkAll := func(cfg *config.Config, err error) {
		if err != nil {
			logger.Error("config reload failed", "path", path, "error", err)
			return
		}
		for _, name := range cfg.PolicyNames() {
			p, err := cfg.Policy(name)
			if err != nil {
				logger.Error("invalid policy", "policy", name, "error", err)
				continue
			}
			r := checkPolicy(authority, name, p)
			if r.OK {
				logger.Info("policy accepted", "policy", name, "protection", r.Protection, "options", r.Options)
			} else {
				logger.Warn("policy rejected", "policy", name, "protection", r.Protection, "options", r.Options, "error", r.Error)
			}
		}
	}

	checkAll(config.Load(path))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return config.Watch(ctx, path, checkAll)
}
