package auditlog

import "context"

// Origin describes where a recorded action came from.
type Origin struct {
	IPAddress string
	UserAgent string
}

type originKey struct{}

// WithOrigin attaches origin metadata to a context. Empty fields keep the
// value already stored in ctx.
func WithOrigin(ctx context.Context, origin Origin) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing, _ := ctx.Value(originKey{}).(Origin)
	merged := Origin{
		IPAddress: pick(origin.IPAddress, existing.IPAddress),
		UserAgent: pick(origin.UserAgent, existing.UserAgent),
	}
	return context.WithValue(ctx, originKey{}, merged)
}

// OriginFromContext returns the origin metadata stored in the context.
func OriginFromContext(ctx context.Context) Origin {
	if ctx == nil {
		return Origin{}
	}
	origin, _ := ctx.Value(originKey{}).(Origin)
	return origin
}

func pick(next, fallback string) string {
	if next != "" {
		return next
	}
	return fallback
}
