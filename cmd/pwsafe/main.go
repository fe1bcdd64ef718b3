package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pwsafe",
	Short: "Inspect and rewrite Password Safe v3 databases",
	Long: `pwsafe is a small toolbox for Password Safe version 3 database files.

It can list the contents of a database and re-encrypt a database under a
new master password. Databases are always rewritten from scratch with
fresh key material; the format has no in-place editing.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
