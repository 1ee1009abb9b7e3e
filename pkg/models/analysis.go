package models

// Result is a JSON-ready result tree: ratio name -> series map, scalar,
// or nested group.
type Result map[string]any

// ErrorMarker renders err as the inline {error, kind} payload that
// replaces a single failed metric in a result tree.
func ErrorMarker(err error) Result {
	return Result{
		"error": err.Error(),
		"kind":  string(KindOf(err)),
	}
}

// IsErrorMarker reports whether v is an inline error payload.
func IsErrorMarker(v any) bool {
	switch m := v.(type) {
	case Result:
		_, ok := m["error"]
		return ok
	case map[string]any:
		_, ok := m["error"]
		return ok
	}
	return false
}
