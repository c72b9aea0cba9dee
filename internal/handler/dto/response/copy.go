package response

import (
	"log/slog"

	"github.com/jinzhu/copier"
)

// copyInto copies same-named fields from a read view. Views and responses
// share field names, so a copier failure means the two drifted apart.
func copyInto[T any](dst *T, src any) *T {
	if err := copier.Copy(dst, src); err != nil {
		slog.Error("response mapping failed", "error", err)
	}
	return dst
}

func copyAll[T any, V any](src []*V) []*T {
	out := make([]*T, len(src))
	for i, v := range src {
		out[i] = copyInto(new(T), v)
	}
	return out
}
