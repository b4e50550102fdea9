package agent

// stringArg returns a string payload value or the fallback when absent.
func stringArg(payload map[string]any, key, fallback string) string {
	if s, ok := payload[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// intArg returns an int payload value, accepting the float64 shape JSON
// decoding produces.
func intArg(payload map[string]any, key string, fallback int) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// stringsArg returns a string-slice payload value, accepting []any produced
// by JSON decoding.
func stringsArg(payload map[string]any, key string) []string {
	switch vals := payload[key].(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, v := range vals {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
