package instrument

import "context"

type correlationIDKey struct{}

// SetCorrelationID stores the correlation id carried across HTTP, MQ and cron runs.
func SetCorrelationID(ctx context.Context, cID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cID)
}

// GetCorrelationID returns the stored correlation id or "".
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	cID, _ := ctx.Value(correlationIDKey{}).(string)
	return cID
}
