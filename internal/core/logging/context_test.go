package logging

import (
	"context"
	"testing"
)

func TestWithPlanID(t *testing.T) {
	ctx := WithPlanID(context.Background(), "plan-123")

	if got := GetPlanID(ctx); got != "plan-123" {
		t.Errorf("GetPlanID() = %q, want %q", got, "plan-123")
	}
}

func TestWithActionIndex(t *testing.T) {
	ctx := WithActionIndex(context.Background(), 2)

	got, ok := GetActionIndex(ctx)
	if !ok {
		t.Fatal("GetActionIndex() reported missing index")
	}
	if got != 2 {
		t.Errorf("GetActionIndex() = %d, want 2", got)
	}
}

func TestGetters_NotPresent(t *testing.T) {
	ctx := context.Background()

	if got := GetPlanID(ctx); got != "" {
		t.Errorf("GetPlanID() = %q, want empty string", got)
	}
	if _, ok := GetActionIndex(ctx); ok {
		t.Error("GetActionIndex() reported an index on an empty context")
	}
}
