package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// Pusher sends frames to a WebSocket connection. Failures are logged,
// never returned: a caller that went away must not fail the request.
type Pusher interface {
	Push(ctx context.Context, connectionID string, frame any)
}

// PusherSource returns the Pusher for an API stage.
type PusherSource interface {
	For(domainName, stage string) Pusher
}

// PostToConnectionAPI is the part of the management API client used here.
type PostToConnectionAPI interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// Endpoint returns the management API endpoint of a WebSocket stage.
func Endpoint(domainName, stage string) string {
	return fmt.Sprintf("https://%s/%s", domainName, stage)
}

// APIGatewayPushers builds one management API client per endpoint.
type APIGatewayPushers struct {
	cfg aws.Config
	log *zap.Logger

	// newClient is replaced in tests.
	newClient func(endpoint string) PostToConnectionAPI

	mu      sync.Mutex
	pushers map[string]*APIGatewayPusher
}

var _ PusherSource = (*APIGatewayPushers)(nil)

// NewAPIGatewayPushers creates a PusherSource from an AWS configuration.
func NewAPIGatewayPushers(cfg aws.Config, log *zap.Logger) *APIGatewayPushers {
	if log == nil {
		log = zap.NewNop()
	}
	p := &APIGatewayPushers{cfg: cfg, log: log, pushers: map[string]*APIGatewayPusher{}}
	p.newClient = func(endpoint string) PostToConnectionAPI {
		return apigatewaymanagementapi.NewFromConfig(p.cfg, func(o *apigatewaymanagementapi.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}
	return p
}

// For returns the Pusher for https://<domainName>/<stage>.
func (s *APIGatewayPushers) For(domainName, stage string) Pusher {
	endpoint := Endpoint(domainName, stage)

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pushers[endpoint]; ok {
		return p
	}
	p := &APIGatewayPusher{client: s.newClient(endpoint), log: s.log}
	s.pushers[endpoint] = p
	return p
}

// APIGatewayPusher posts JSON frames through the API Gateway Management API.
type APIGatewayPusher struct {
	client PostToConnectionAPI
	log    *zap.Logger
}

var _ Pusher = (*APIGatewayPusher)(nil)

// NewAPIGatewayPusher wraps an existing management API client.
func NewAPIGatewayPusher(client PostToConnectionAPI, log *zap.Logger) *APIGatewayPusher {
	if log == nil {
		log = zap.NewNop()
	}
	return &APIGatewayPusher{client: client, log: log}
}

// Push marshals frame and posts it to the connection.
func (p *APIGatewayPusher) Push(ctx context.Context, connectionID string, frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		p.log.Error("encode frame", zap.String("connection_id", connectionID), zap.Error(err))
		return
	}

	_, err = p.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
		ConnectionId: aws.String(connectionID),
		Data:         data,
	})
	if err == nil {
		return
	}

	var gone *apigwtypes.GoneException
	if errors.As(err, &gone) {
		p.log.Warn("connection is gone", zap.String("connection_id", connectionID))
		return
	}
	fields := []zap.Field{zap.String("connection_id", connectionID), zap.Error(err)}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.String("code", apiErr.ErrorCode()))
	}
	p.log.Error("post to connection failed", fields...)
}
