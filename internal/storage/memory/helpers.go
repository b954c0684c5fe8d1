package memory

// paginate applies offset and limit to an already-sorted slice. A limit of
// zero or less means no limit, which keeps hand-built requests in tests
// from silently returning nothing.
func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
