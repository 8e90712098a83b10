package services

import "context"

type contextKey string

const (
	fileKey      contextKey = "file"
	fileIndexKey contextKey = "file_index"
	stageKey     contextKey = "stage"
	requestIDKey contextKey = "request_id"
)

// WithFile annotates context with the source video path and its 1-based
// position among the command-line arguments.
func WithFile(ctx context.Context, path string, index int) context.Context {
	if path != "" {
		ctx = context.WithValue(ctx, fileKey, path)
	}
	if index > 0 {
		ctx = context.WithValue(ctx, fileIndexKey, index)
	}
	return ctx
}

// FileFromContext extracts the source video path if present.
func FileFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(fileKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// FileIndexFromContext extracts the 1-based file position if present.
func FileIndexFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(fileIndexKey).(int)
	return v, ok && v > 0
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
