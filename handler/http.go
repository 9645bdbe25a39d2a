package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HTTP handles API Gateway REST proxy events. The result is returned in
// the response body; thoughts are not relayed.
type HTTP struct {
	agent Invoker
	log   *zap.Logger

	// NewSessionID is replaced in tests.
	NewSessionID func() string
}

// NewHTTP creates an HTTP handler.
func NewHTTP(agent Invoker, log *zap.Logger) *HTTP {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTP{agent: agent, log: log, NewSessionID: uuid.NewString}
}

// Handle serves one request.
func (h *HTTP) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("an error occurred", zap.Error(fmt.Errorf("panic: %v", r)))
			resp = jsonResponse(http.StatusInternalServerError, ErrorFrame{Error: InternalErrorMessage})
			err = nil
		}
	}()

	prompt, perr := DecodePrompt(req.Body)
	if perr != nil {
		h.log.Info("rejected request", zap.Error(perr))
		return jsonResponse(http.StatusBadRequest, ErrorFrame{Error: MissingPromptMessage}), nil
	}

	sessionID := h.NewSessionID()
	h.log.Info("prompt received", zap.String("session_id", sessionID))

	raw := h.agent.Invoke(ctx, prompt, sessionID)
	return jsonResponse(http.StatusOK, NewResultFrame(raw)), nil
}

func jsonResponse(status int, body any) events.APIGatewayProxyResponse {
	data, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(ErrorFrame{Error: InternalErrorMessage})
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}
}
