package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"retail-ledger/internal/cli"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Run the interactive teller menu on stdin/stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		audit, err := openAudit(ctx)
		if err != nil {
			return err
		}
		defer audit.Close()

		return cli.NewMenu(newBankService(audit.log), os.Stdin, os.Stdout).Run(ctx)
	},
}
