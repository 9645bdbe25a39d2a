// Package cmd contains all Cobra commands for chartagent.
//
// Design decision: the Lambda entry point is a subcommand (serve) so the
// same binary can run a prompt locally (run) or poke the database tools
// directly (schema, query) with the configuration the function uses.
// All configuration comes from the environment, as on Lambda.
package cmd

import (
	"os"

	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/applog"
	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/config"
	"github.com/spf13/cobra"
)

var settings *config.Settings

var rootCmd = &cobra.Command{
	Use:   "chartagent",
	Short: "Chart reporting agent backed by PostgreSQL",
	Long: `chartagent turns a natural-language prompt into a Chart.js configuration:
  • A hosted LLM agent (Bedrock or Anthropic) plans the chart
  • get_schema and execute_sql tools read a PostgreSQL database
  • Thoughts and the final chart are pushed over an API Gateway WebSocket
  • Optional SSH tunnel for databases behind a bastion

Run 'chartagent serve' as the Lambda entry point.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load()
		if err != nil {
			return err
		}
		log, err := applog.New(s.LogLevel)
		if err != nil {
			return err
		}
		applog.SetLogger(log)
		settings = s
		return nil
	},
	// Inside Lambda the bootstrap binary starts without arguments.
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
			return serveCmd.RunE(cmd, args)
		}
		return cmd.Help()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		applog.Sync()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, runCmd, schemaCmd, queryCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
