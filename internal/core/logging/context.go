package logging

import "context"

type contextKey string

const (
	planIDKey      contextKey = "plan_id"
	actionIndexKey contextKey = "action_index"
)

// WithPlanID adds a plan ID to the context.
func WithPlanID(ctx context.Context, planID string) context.Context {
	return context.WithValue(ctx, planIDKey, planID)
}

// WithActionIndex adds the position of the executing action to the context.
func WithActionIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, actionIndexKey, index)
}

// GetPlanID retrieves the plan ID from the context.
// Returns empty string if not present.
func GetPlanID(ctx context.Context) string {
	if id, ok := ctx.Value(planIDKey).(string); ok {
		return id
	}
	return ""
}

// GetActionIndex retrieves the action index from the context.
// The boolean is false when no index is present.
func GetActionIndex(ctx context.Context) (int, bool) {
	idx, ok := ctx.Value(actionIndexKey).(int)
	return idx, ok
}
