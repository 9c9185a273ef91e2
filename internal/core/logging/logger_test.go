package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	t.Cleanup(func() { log.Logger = orig })
	log.Logger = zerolog.New(&buf)

	logger := Component("dispatcher")
	logger.Info().Ctx(WithPlanID(t.Context(), "plan-9")).Msg("test message")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log: %v", err)
	}

	if cmp := logEntry["cmp"]; cmp != "dispatcher" {
		t.Errorf("Component() cmp = %q, want %q", cmp, "dispatcher")
	}

	if msg := logEntry["message"]; msg != "test message" {
		t.Errorf("Component() message = %q, want %q", msg, "test message")
	}

	if id := logEntry["plan_id"]; id != "plan-9" {
		t.Errorf("Component() plan_id = %q, want %q", id, "plan-9")
	}
}
