package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the most recent audit entries from a SQL audit store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		audit, err := openAudit(ctx)
		if err != nil {
			return err
		}
		defer audit.Close()

		if audit.sql == nil {
			return errors.New("audit entries can only be listed with AUDIT_DRIVER postgres or sqlite3")
		}

		entries, err := audit.sql.Recent(ctx, auditLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tOPERATION\tARGUMENTS\tRESULT")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Operation, e.Arguments, e.Result)
		}
		return w.Flush()
	},
}

func init() {
	auditCmd.Flags().IntVar(&auditLimit, "limit", 20, "number of entries to show")
}
