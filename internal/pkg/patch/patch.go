package patch

// Coalesce returns *ptr when set, otherwise fallback.
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}

// Optional resolves a nullable field: clear wins over set, and an unset
// field keeps current.
func Optional[T any](set *T, clear bool, current *T) *T {
	switch {
	case clear:
		return nil
	case set != nil:
		return set
	default:
		return current
	}
}
