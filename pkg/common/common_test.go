package common

import (
	"context"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"go.opentelemetry.io/otel"
)

func TestInterceptorLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	tests := []struct {
		level    logging.Level
		expected logrus.Level
	}{
		{logging.LevelDebug, logrus.DebugLevel},
		{logging.LevelInfo, logrus.InfoLevel},
		{logging.LevelWarn, logrus.WarnLevel},
		{logging.LevelError, logrus.ErrorLevel},
	}

	for _, tt := range tests {
		hook.Reset()
		InterceptorLogger(logger).Log(context.Background(), tt.level, "finished call", "grpc.method", "GetRuleSet", "grpc.code", "OK")

		entry := hook.LastEntry()
		if entry == nil {
			t.Fatalf("expected an entry for level %v", tt.level)
		}
		if entry.Level != tt.expected {
			t.Errorf("level = %v, expected %v", entry.Level, tt.expected)
		}
		if entry.Data["grpc.method"] != "GetRuleSet" {
			t.Errorf("grpc.method = %v, expected GetRuleSet", entry.Data["grpc.method"])
		}
	}
}

func TestNewTracerProvider(t *testing.T) {
	tp, err := NewTracerProvider("trigger-service", "test", 0, "")
	if err != nil {
		t.Fatalf("NewTracerProvider() error = %v", err)
	}
	defer tp.Shutdown(context.Background())

	if _, err := NewTracerProvider("trigger-service", "test", 0, "http://localhost:9411/api/v2/spans"); err != nil {
		t.Errorf("NewTracerProvider() with zipkin endpoint error = %v", err)
	}
}

func TestScope_WithRoom(t *testing.T) {
	tp, _ := NewTracerProvider("trigger-service", "test", 0, "")
	defer tp.Shutdown(context.Background())
	otel.SetTracerProvider(tp)

	scope := GetScopeFromContext(context.Background(), "TriggerService.GetRuleSet").WithRoom("room-1")
	defer scope.Finish()

	if scope.TraceID == "" || scope.TraceID == "00000000000000000000000000000000" {
		t.Errorf("TraceID = %q, expected a sampled trace", scope.TraceID)
	}
	if scope.Log.Data[roomIdLogField] != "room-1" {
		t.Errorf("roomId field = %v, expected room-1", scope.Log.Data[roomIdLogField])
	}
	if scope.Log.Data[traceIdLogField] != scope.TraceID {
		t.Errorf("traceID field = %v, expected %s", scope.Log.Data[traceIdLogField], scope.TraceID)
	}
}
