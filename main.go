// chartagent – chart reporting agent backed by PostgreSQL.
//
// Entry point: initializes the Cobra root command. On Lambda the
// function runs `chartagent serve`.
package main

import (
	"os"

	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
