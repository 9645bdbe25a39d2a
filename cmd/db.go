package cmd

import (
	"fmt"
	"strings"

	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/applog"
	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/db"
	"github.com/spf13/cobra"
)

var schemaName string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the schema descriptor the get_schema tool returns",
	RunE: func(cmd *cobra.Command, args []string) error {
		connector, tools := newDB(settings, applog.L())
		defer connector.Close()

		out, err := tools.GetSchema(cmd.Context(), schemaName)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run a SELECT through the execute_sql tool and print its JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		connector, tools := newDB(settings, applog.L())
		defer connector.Close()

		fmt.Fprintln(cmd.OutOrStdout(), tools.ExecuteSQL(cmd.Context(), strings.Join(args, " ")))
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVar(&schemaName, "schema", db.DefaultSchema, "database schema to inspect")
}
