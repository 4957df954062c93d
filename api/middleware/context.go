package middleware

import "context"

type contextKey string

const (
	ctxEmployeeID contextKey = "employee_id"
	ctxPosition   contextKey = "position"
)

func EmployeeIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxEmployeeID).(string); ok {
		return v
	}
	return ""
}

func PositionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxPosition).(string); ok {
		return v
	}
	return ""
}

// WithEmployeeID injects the employee identifier into the context.
func WithEmployeeID(ctx context.Context, employeeID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxEmployeeID, employeeID)
}
