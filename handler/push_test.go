package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakePost struct {
	err   error
	calls []*apigatewaymanagementapi.PostToConnectionInput
}

func (f *fakePost) PostToConnection(_ context.Context, in *apigatewaymanagementapi.PostToConnectionInput, _ ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error) {
	f.calls = append(f.calls, in)
	if f.err != nil {
		return nil, f.err
	}
	return &apigatewaymanagementapi.PostToConnectionOutput{}, nil
}

func TestAPIGatewayPusher_Push(t *testing.T) {
	client := &fakePost{}
	p := NewAPIGatewayPusher(client, nil)

	p.Push(context.Background(), "conn-1", NewThoughtFrame("thinking"))

	require.Len(t, client.calls, 1)
	assert.Equal(t, "conn-1", aws.ToString(client.calls[0].ConnectionId))
	assert.JSONEq(t, `{"type":"thought","content":"thinking"}`, string(client.calls[0].Data))
}

func TestAPIGatewayPusher_Failures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	NewAPIGatewayPusher(&fakePost{err: &apigwtypes.GoneException{Message: aws.String("gone")}}, log).
		Push(context.Background(), "conn-1", ErrorFrame{Error: "x"})
	NewAPIGatewayPusher(&fakePost{err: errors.New("network down")}, log).
		Push(context.Background(), "conn-2", ErrorFrame{Error: "x"})

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "conn-1", entries[0].ContextMap()["connection_id"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "conn-2", entries[1].ContextMap()["connection_id"])
}

func TestAPIGatewayPushers_For(t *testing.T) {
	src := NewAPIGatewayPushers(aws.Config{Region: "us-east-1"}, nil)
	var endpoints []string
	src.newClient = func(endpoint string) PostToConnectionAPI {
		endpoints = append(endpoints, endpoint)
		return &fakePost{}
	}

	a := src.For("abc.execute-api.us-east-1.amazonaws.com", "dev")
	b := src.For("abc.execute-api.us-east-1.amazonaws.com", "dev")
	src.For("abc.execute-api.us-east-1.amazonaws.com", "prod")

	assert.Same(t, a, b)
	assert.Equal(t, []string{
		"https://abc.execute-api.us-east-1.amazonaws.com/dev",
		"https://abc.execute-api.us-east-1.amazonaws.com/prod",
	}, endpoints)
}
