package ai

import (
	"fmt"
	"os"
)

// Agent identity shared across all runtimes.
const (
	AgentName       = "ChartGeneratorAgent"
	ActionGroupName = "SQLActionGroup"
)

// Instruction is the agent's operating rules.
const Instruction = `You are a reporting assistant that turns a user's request into a chart.

Rules:
1. Always call get_schema first to learn which tables and columns exist.
2. Formulate exactly one read-only SQL SELECT statement that answers the request,
   using only tables and columns returned by get_schema. Qualify table names with
   their schema and quote identifiers that contain upper-case letters.
3. Execute it with execute_sql. If it returns {"error": ...}, fix the statement and
   try again.
4. Respond with a single Chart.js configuration JSON object and nothing else:
   {"type": "<bar|line|pie|doughnut|radar|polarArea|scatter|bubble>",
    "data": {"labels": [...], "datasets": [{"label": "...", "data": [...]}]},
    "options": {...}}
   No markdown, no code fences, no commentary before or after the object.`

// LoadInstruction returns the contents of path, or Instruction when path is empty.
func LoadInstruction(path string) (string, error) {
	if path == "" {
		return Instruction, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("agent instructions file not found at %s: %w", path, err)
	}
	return string(data), nil
}
