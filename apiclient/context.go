package apiclient

import "context"

type ctxKey int

const (
	anonymousKey ctxKey = iota
	retriedKey
)

// Anonymous marks requests made with ctx as credential-free: no token is
// attached and a 401 is returned as is. Used for login, registration and
// password reset.
func Anonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey, true)
}

func isAnonymous(ctx context.Context) bool {
	v, _ := ctx.Value(anonymousKey).(bool)
	return v
}

func markRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey, true)
}

func isRetried(ctx context.Context) bool {
	v, _ := ctx.Value(retriedKey).(bool)
	return v
}
