package telemetry

import (
	"time"

	"go.uber.org/zap"

	"picgo-mcp/internal/domain"
)

const (
	FieldRequestID  = "request_id"
	FieldOutcome    = "outcome"
	FieldPathCount  = "path_count"
	FieldDurationMs = "duration_ms"
	FieldTool       = "tool"
)

func RequestIDField(value string) zap.Field {
	return zap.String(FieldRequestID, value)
}

func OutcomeField(outcome domain.OutcomeKind) zap.Field {
	return zap.String(FieldOutcome, string(outcome))
}

func PathCountField(count int) zap.Field {
	return zap.Int(FieldPathCount, count)
}

func DurationField(duration time.Duration) zap.Field {
	return zap.Int64(FieldDurationMs, duration.Milliseconds())
}

func ToolField(name string) zap.Field {
	return zap.String(FieldTool, name)
}
