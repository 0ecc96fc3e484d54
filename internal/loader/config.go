package loader

import "time"

// stringConfig reads a string field from a component config mapping.
func stringConfig(cfg map[string]any, key string) string {
	if v, ok := cfg[key].(string); ok {
		return v
	}
	return ""
}

// durationConfig reads a duration expressed in seconds, accepting the
// numeric types YAML and JSON decoders produce. Returns fallback when the
// field is absent or not positive.
func durationConfig(cfg map[string]any, key string, fallback time.Duration) time.Duration {
	var secs float64
	switch v := cfg[key].(type) {
	case int:
		secs = float64(v)
	case int64:
		secs = float64(v)
	case float64:
		secs = v
	default:
		return fallback
	}
	if secs <= 0 {
		return fallback
	}
	return time.Duration(secs * float64(time.Second))
}

// stringMapConfig reads a string->string mapping, tolerating the
// map[string]any shape YAML decoders produce.
func stringMapConfig(cfg map[string]any, key string) map[string]string {
	out := map[string]string{}
	switch m := cfg[key].(type) {
	case map[string]string:
		for k, v := range m {
			out[k] = v
		}
	case map[string]any:
		for k, v := range m {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
	}
	return out
}
