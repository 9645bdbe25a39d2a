package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/applog"
	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/handler"
	"github.com/aws/aws-lambda-go/events"
	"github.com/spf13/cobra"
)

var runRoute string

var runCmd = &cobra.Command{
	Use:   "run [prompt]",
	Short: "Run one prompt through the WebSocket handler and print the frames",
	Example: `  chartagent run "Generate chart of patient age and cancer risk."
  chartagent run --route '$connect'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		a, err := newApp(ctx, settings, applog.L())
		if err != nil {
			return err
		}
		defer a.Close()

		prompt := strings.Join(args, " ")
		console := newConsolePusher(out)
		ws := handler.NewWebSocket(a.agent, console, applog.L().Named("websocket"))

		fmt.Fprintln(out, StyleTitle.Render(fmt.Sprintf("=== Route: %q ===", runRoute)))
		if !isLifecycleRoute(runRoute) {
			fmt.Fprintf(out, "Prompt: %q\n", prompt)
		}

		resp, err := ws.Handle(ctx, newRunEvent(prompt, runRoute))
		if err != nil {
			return err
		}
		printRunSummary(out, resp.StatusCode, console.Thoughts())
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runRoute, "route", "sendmessage", "route key ($connect, $disconnect or a message route)")
}

func isLifecycleRoute(route string) bool {
	return route == "$connect" || route == "$disconnect"
}

// newRunEvent builds the event API Gateway would deliver for route.
func newRunEvent(prompt, route string) events.APIGatewayWebsocketProxyRequest {
	body := "{}"
	if !isLifecycleRoute(route) {
		data, _ := json.Marshal(map[string]string{"prompt": prompt})
		body = string(data)
	}
	return events.APIGatewayWebsocketProxyRequest{
		Body: body,
		RequestContext: events.APIGatewayWebsocketProxyRequestContext{
			RouteKey:     route,
			ConnectionID: "local-connection",
			DomainName:   "localhost",
			Stage:        "dev",
		},
	}
}

func printRunSummary(out io.Writer, status int, thoughts []string) {
	fmt.Fprintln(out, StyleDimmed.Render(strings.Repeat("=", 60)))
	fmt.Fprintf(out, "Status code: %d\n", status)
	if len(thoughts) == 0 {
		fmt.Fprintln(out, StyleDimmed.Render("No thoughts captured."))
		return
	}
	fmt.Fprintf(out, "\nCaptured %d thoughts:\n", len(thoughts))
	for i, t := range thoughts {
		fmt.Fprintf(out, "  %d. %s\n", i+1, t)
	}
}
