// Package feeds implements cursor based pagination over a fixed post ordering
package feeds

import (
	"github.com/samber/lo"
)

// Paginate returns up to limit ids from order, starting right after the
// id given as cursor. An empty or unknown cursor starts from the
// beginning. The next cursor is the last returned id and is only set
// when more ids remain.
func Paginate(order []string, cursor string, limit int) ([]string, *string) {
	if limit <= 0 {
		return []string{}, nil
	}

	start := startIndex(order, cursor)
	end := min(start+limit, len(order))

	page := make([]string, end-start)
	copy(page, order[start:end])

	var nextCursor *string

	// Only set cursor if we have more results
	if end < len(order) && len(page) > 0 {
		last := page[len(page)-1]
		nextCursor = &last
	}

	return page, nextCursor
}

// startIndex resolves the cursor to the index of the first id on the page.
// If the cursor is unknown, it returns 0
func startIndex(order []string, cursor string) int {
	if cursor == "" {
		return 0
	}
	_, idx, found := lo.FindIndexOf(order, func(id string) bool {
		return id == cursor
	})
	if !found {
		return 0
	}
	return idx + 1
}
