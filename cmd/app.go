package cmd

import (
	"context"
	"fmt"

	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/ai"
	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/applog"
	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/config"
	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/db"
	"go.uber.org/zap"
)

// app is the wired process: database tools, agent runtime, orchestrator.
type app struct {
	connector *db.PgConnector
	tools     *db.Tools
	agent     *ai.Orchestrator
}

// newDB wires only the database side.
func newDB(s *config.Settings, log *zap.Logger) (*db.PgConnector, *db.Tools) {
	connector := db.NewConnector(s.DB, log.Named("db"))
	return connector, db.NewTools(connector, log.Named("db"))
}

func newApp(ctx context.Context, s *config.Settings, log *zap.Logger) (*app, error) {
	connector, tools := newDB(s, log)

	instruction, err := ai.LoadInstruction(s.Agent.InstructionsFile)
	if err != nil {
		return nil, err
	}

	runtime, err := ai.NewRuntime(ctx, s.Agent, log.Named("runtime"))
	if err != nil {
		return nil, fmt.Errorf("agent runtime: %w", err)
	}

	base := ai.Descriptor{
		AgentName:   ai.AgentName,
		ModelID:     s.Agent.ModelID,
		Instruction: instruction,
		ActionGroup: ai.ActionGroupName,
		Tools:       ai.SQLTools(tools),
		CallDelay:   s.Agent.CallDelay,
	}
	agent := ai.NewOrchestrator(runtime, base, s.Agent.RegionOverride, log.Named("agent"))

	applog.Event("startup", "agent %s ready (runtime %s, model %s)", ai.AgentName, runtime.Name(), s.Agent.ModelID)
	return &app{connector: connector, tools: tools, agent: agent}, nil
}

func (a *app) Close() {
	a.connector.Close()
}
