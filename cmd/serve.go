package cmd

import (
	"fmt"

	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/applog"
	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/handler"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Lambda handler (HANDLER_MODE=websocket|http)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := applog.L()

		a, err := newApp(ctx, settings, log)
		if err != nil {
			return err
		}
		defer a.Close()

		switch settings.HandlerMode {
		case "http":
			applog.Event("startup", "serving HTTP events")
			lambda.Start(handler.NewHTTP(a.agent, log.Named("http")).Handle)
		default:
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return fmt.Errorf("failed to load AWS config: %w", err)
			}
			pushers := handler.NewAPIGatewayPushers(awsCfg, log.Named("push"))
			applog.Event("startup", "serving WebSocket events")
			lambda.Start(handler.NewWebSocket(a.agent, pushers, log.Named("websocket")).Handle)
		}
		return nil
	},
}
