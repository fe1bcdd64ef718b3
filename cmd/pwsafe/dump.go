package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/1uckyPh4nt0m/pwsafer"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "List every field of a database",
	Long: `Dump decrypts a database and prints each field with its tag, length
and decoded value. The trailing integrity tag is always verified.`,
	Example: `  pwsafe dump vault.psafe3
  pwsafe dump vault.psafe3 --secrets`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDump,
}

var (
	dumpPassword string
	dumpSecrets  bool
)

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().StringVarP(&dumpPassword, "password", "p", "",
		"Database password (will prompt if not provided)")
	dumpCmd.Flags().BoolVar(&dumpSecrets, "secrets", false,
		"Print password field values instead of masking them")
}

func runDump(cmd *cobra.Command, args []string) error {
	password := []byte(dumpPassword)
	if len(password) == 0 {
		var err error
		password, err = promptPassword("Password")
		if err != nil {
			return err
		}
	}

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	db, err := pwsafer.NewReader(bufio.NewReader(file), password)
	if err != nil {
		return err
	}

	version, err := db.ReadVersion()
	if err != nil {
		return err
	}
	fmt.Printf("format version %d.%d, %d key stretching iterations\n",
		version>>8, version&0xff, db.Iterations())

	inHeader := true
	for {
		field, err := db.ReadField()
		if err != nil {
			return err
		}
		if field == nil {
			break
		}

		var value pwsafer.Value
		if inHeader {
			value, err = pwsafer.DecodeHeaderField(field.Tag, field.Data)
			if field.Tag == byte(pwsafer.HeaderEnd) {
				inHeader = false
			}
		} else {
			value, err = pwsafer.DecodeRecordField(field.Tag, field.Data)
		}
		if err != nil {
			// Undecodable values are shown raw rather than aborting the dump.
			value = pwsafer.Value{Kind: pwsafer.KindRaw, Raw: field.Data}
		}

		name := value.Name
		if name == "" {
			name = "unknown"
		}
		text := value.String()
		if !dumpSecrets && pwsafer.RecordType(field.Tag) == pwsafer.RecordPassword && !inHeader {
			text = "********"
		}
		fmt.Printf("  0x%02x %-28s %5d bytes  %s\n", field.Tag, name, len(field.Data), text)
	}

	if err := db.Verify(); err != nil {
		color.Red("integrity check FAILED")
		return err
	}
	color.Green("integrity verified")
	return nil
}
