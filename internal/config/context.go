package config

import "context"

type contextKey int

const (
	configKey contextKey = iota
	sourceKey
)

func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext returns the configuration loaded for this invocation, or the
// defaults when none was attached.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return Defaults()
}

// WithSource records the file the configuration was read from. An empty
// path stands for the manifest lookup.
func WithSource(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, sourceKey, path)
}

// SourceFromContext describes where the configuration of this invocation
// came from, see Describe.
func SourceFromContext(ctx context.Context) string {
	path, _ := ctx.Value(sourceKey).(string)
	return Describe(path)
}
