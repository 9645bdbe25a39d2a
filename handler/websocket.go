package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/ai"
	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebSocket handles API Gateway WebSocket route events.
type WebSocket struct {
	agent   Invoker
	pushers PusherSource
	log     *zap.Logger

	// NewSessionID is replaced in tests.
	NewSessionID func() string
}

// NewWebSocket creates a WebSocket handler.
func NewWebSocket(agent Invoker, pushers PusherSource, log *zap.Logger) *WebSocket {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebSocket{agent: agent, pushers: pushers, log: log, NewSessionID: uuid.NewString}
}

// Handle serves one route event. $connect and $disconnect are
// acknowledged; every other route is treated as a prompt message.
func (h *WebSocket) Handle(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	rc := req.RequestContext
	switch rc.RouteKey {
	case "$connect":
		h.log.Info("new connection", zap.String("connection_id", rc.ConnectionID))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: "Connected."}, nil
	case "$disconnect":
		h.log.Info("connection closed", zap.String("connection_id", rc.ConnectionID))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: "Disconnected."}, nil
	}

	pusher := h.pushers.For(rc.DomainName, rc.Stage)
	status := h.message(ctx, pusher, rc.ConnectionID, req.Body)
	return events.APIGatewayProxyResponse{StatusCode: status}, nil
}

func (h *WebSocket) message(ctx context.Context, pusher Pusher, connectionID, body string) (status int) {
	log := h.log.With(zap.String("connection_id", connectionID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("an error occurred", zap.Error(fmt.Errorf("panic: %v", r)))
			pusher.Push(ctx, connectionID, ErrorFrame{Error: InternalErrorMessage})
			status = http.StatusInternalServerError
		}
	}()

	prompt, err := DecodePrompt(body)
	if err != nil {
		log.Info("rejected message", zap.Error(err))
		pusher.Push(ctx, connectionID, ErrorFrame{Error: MissingPromptMessage})
		return http.StatusBadRequest
	}

	sessionID := h.NewSessionID()
	log.Info("prompt received", zap.String("session_id", sessionID))

	raw := h.agent.Invoke(ctx, prompt, sessionID, ai.WithThoughtCallback(func(thought string) {
		pusher.Push(ctx, connectionID, NewThoughtFrame(thought))
	}))

	pusher.Push(ctx, connectionID, NewResultFrame(raw))
	return http.StatusOK
}
