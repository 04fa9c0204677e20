package config

import "strings"

// IsSecretKey returns true if the given dot-separated key holds a secret.
// All stored credentials live under api_keys.
func IsSecretKey(key string) bool {
	return strings.HasPrefix(key, "api_keys.")
}

// Flatten converts a nested map into a flat map with dot-separated keys.
// For example, {"retention": {"schedule": "@daily"}} becomes
// {"retention.schedule": "@daily"}.
func Flatten(m map[string]any) map[string]any {
	out := make(map[string]any)
	flatten("", m, out)
	return out
}

func flatten(prefix string, m map[string]any, out map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch child := v.(type) {
		case map[string]any:
			flatten(key, child, out)
		default:
			out[key] = v
		}
	}
}

// Unflatten converts a flat map with dot-separated keys back into a
// nested map.
func Unflatten(flat map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range flat {
		parts := strings.Split(k, ".")
		current := out
		for i, part := range parts {
			if i == len(parts)-1 {
				current[part] = v
			} else {
				next, ok := current[part]
				if !ok {
					next = make(map[string]any)
					current[part] = next
				}
				m, ok := next.(map[string]any)
				if !ok {
					m = make(map[string]any)
					current[part] = m
				}
				current = m
			}
		}
	}
	return out
}

// MaskSecrets returns a copy of the flat map with secret values shown as
// "***xxxx" where xxxx is the last 4 characters. Empty values stay empty.
func MaskSecrets(flat map[string]any) map[string]any {
	out := make(map[string]any, len(flat))
	for k, v := range flat {
		if IsSecretKey(k) {
			s, ok := v.(string)
			if ok && s != "" {
				if len(s) <= 4 {
					out[k] = "***"
				} else {
					out[k] = "***" + s[len(s)-4:]
				}
				continue
			}
		}
		out[k] = v
	}
	return out
}
