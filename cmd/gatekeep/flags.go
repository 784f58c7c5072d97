package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/benaskins/gatekeep/internal/access"
	"github.com/spf13/cobra"
)

type flagInfo struct {
	Name  string `json:"name"`
	Group string `json:"group"`
	Bit   uint64 `json:"bit"`
}

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "List access-control option flags available on this platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")

		var infos []flagInfo
		for _, o := range access.KnownOptions() {
			infos = append(infos, flagInfo{Name: o.String(), Group: o.Group(), Bit: uint64(o)})
		}
		if jsonOut {
			return printJSON(infos)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FLAG\tGROUP\tBIT")
		for _, f := range infos {
			fmt.Fprintf(w, "%s\t%s\t%#x\n", f.Name, f.Group, f.Bit)
		}
		return w.Flush()
	},
}

var protectionsCmd = &cobra.Command{
	Use:   "protections",
	Short: "List protection levels",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")

		var names []string
		for _, p := range access.Protections() {
			names = append(names, p.String())
		}
		if jsonOut {
			return printJSON(names)
		}
		for i, n := range names {
			if access.Protection(i) == access.Default().Protection() {
				n += " (default)"
			}
			fmt.Println(n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(flagsCmd)
	rootCmd.AddCommand(protectionsCmd)
}
