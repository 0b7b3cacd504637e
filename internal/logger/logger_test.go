package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewRequestID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewRequestID()
		if len(id) != 8 {
			t.Fatalf("expected 8 characters, got %q", id)
		}
		seen[id] = true
	}
	if len(seen) < 95 {
		t.Errorf("request IDs repeat too often: %d unique of 100", len(seen))
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc12345")
	if got := RequestIDFromContext(ctx); got != "abc12345" {
		t.Errorf("expected abc12345, got %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty request ID, got %q", got)
	}
}

func TestLogBodyTruncates(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.DebugLevel)
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer zerolog.SetGlobalLevel(prev)

	LogRequest(l, []byte(strings.Repeat("x", 1500)))
	out := buf.String()
	if !strings.Contains(out, `"truncated":true`) {
		t.Errorf("expected truncated flag, got %s", out)
	}
	if strings.Contains(out, strings.Repeat("x", 1001)) {
		t.Error("body should be cut at 1000 bytes")
	}

	buf.Reset()
	LogResponse(l, nil)
	if buf.Len() != 0 {
		t.Errorf("empty body should not be logged, got %s", buf.String())
	}
}
