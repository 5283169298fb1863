package ctxkeys

// TraceIDKey keys the per-run trace ID carried through contexts.
type TraceIDKey struct{}
