package utils

// StringSlice returns the string elements of a decoded JSON array, such as a
// token or user info claim. Non-string elements are skipped; anything that is
// not an array yields nil.
func StringSlice(v any) []string {
	switch values := v.(type) {
	case []string:
		return values
	case []any:
		out := make([]string, 0, len(values))
		for _, e := range values {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
