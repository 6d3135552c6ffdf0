package llm

import "context"

type contextKey string

const apiKeyOverrideKey contextKey = "llm-api-key-override"

// ContextWithAPIKey stores a per-request provider API key in context for
// downstream completion calls, overriding the configured default.
func ContextWithAPIKey(ctx context.Context, apiKey string) context.Context {
	if ctx == nil || apiKey == "" {
		return ctx
	}
	return context.WithValue(ctx, apiKeyOverrideKey, apiKey)
}

// APIKeyFromContext extracts the per-request provider API key if one was provided.
func APIKeyFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if key, ok := ctx.Value(apiKeyOverrideKey).(string); ok {
		return key
	}
	return ""
}
