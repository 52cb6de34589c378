package score

import "fmt"

// Paginate applies start/limit offsets to a result list.
//
// Negative values are caller-input errors and are rejected before any
// slicing. A limit of zero means "no limit".
func Paginate[T any](items []T, start, limit int) ([]T, error) {
	if start < 0 {
		return nil, fmt.Errorf("start must be >= 0, got %d", start)
	}
	if limit < 0 {
		return nil, fmt.Errorf("limit must be >= 0, got %d", limit)
	}
	if start >= len(items) {
		return nil, nil
	}
	items = items[start:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
