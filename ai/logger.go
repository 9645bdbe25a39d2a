// logger.go records every AI interaction.
//
// Request details and the raw response go to the structured log so a
// bad chart can be traced back to what the model actually said.
package ai

import (
	"time"

	"go.uber.org/zap"
)

// LogAIRequest logs any AI request with the given operation name and input details.
func LogAIRequest(log *zap.Logger, operation, runtime string, details map[string]string) {
	fields := make([]zap.Field, 0, len(details)+2)
	fields = append(fields, zap.String("op", operation), zap.String("runtime", runtime))
	for k, v := range details {
		fields = append(fields, zap.String(k, v))
	}
	log.Info("ai request", fields...)
}

// LogAIResponse logs any AI response with the given operation name.
func LogAIResponse(log *zap.Logger, operation, response string, err error, took time.Duration) {
	if err != nil {
		log.Error("ai response", zap.String("op", operation), zap.Duration("took", took), zap.Error(err))
		return
	}
	log.Info("ai response",
		zap.String("op", operation),
		zap.Duration("took", took),
		zap.Int("length", len(response)),
		zap.String("response", response))
}
