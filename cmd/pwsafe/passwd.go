package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/1uckyPh4nt0m/pwsafer"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd <input> <output>",
	Short: "Re-encrypt a database under a new password",
	Long: `Passwd streams every field of the input database into a freshly keyed
output database. The iteration count and all fields, including ones this
tool does not recognize, are preserved unchanged.`,
	Example: `  pwsafe passwd vault.psafe3 vault-new.psafe3`,
	Args:    cobra.ExactArgs(2),
	RunE:    runPasswd,
}

func init() {
	rootCmd.AddCommand(passwdCmd)
}

func runPasswd(cmd *cobra.Command, args []string) error {
	oldPassword, err := promptPassword("Current password")
	if err != nil {
		return err
	}
	newPassword, err := promptPassword("New password")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Repeat new password")
	if err != nil {
		return err
	}
	if !bytes.Equal(newPassword, confirm) {
		return errors.New("passwords do not match")
	}

	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	src, err := pwsafer.NewReader(bufio.NewReader(in), oldPassword)
	if err != nil {
		return err
	}

	out, err := os.OpenFile(args[1], os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}

	buffered := bufio.NewWriter(out)
	if err := pwsafer.Rekey(src, buffered, newPassword); err != nil {
		out.Close()
		os.Remove(args[1])
		return err
	}
	if err := buffered.Flush(); err != nil {
		out.Close()
		os.Remove(args[1])
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	color.Green("database rewritten")
	fmt.Printf("%s -> %s\n", args[0], args[1])
	return nil
}
