package feeds_test

import (
	"fmt"
	"socialfeed/feeds"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("p%03d", n-i)
	}
	return out
}

func TestPaginate(t *testing.T) {
	order := ids(10)

	tests := []struct {
		name       string
		cursor     string
		limit      int
		expected   []string
		nextCursor *string
	}{
		{
			name:     "zero limit",
			cursor:   "",
			limit:    0,
			expected: []string{},
		},
		{
			name:     "negative limit with cursor",
			cursor:   "p008",
			limit:    -3,
			expected: []string{},
		},
		{
			name:       "first page",
			cursor:     "",
			limit:      3,
			expected:   []string{"p010", "p009", "p008"},
			nextCursor: strPtr("p008"),
		},
		{
			name:       "page after cursor",
			cursor:     "p008",
			limit:      3,
			expected:   []string{"p007", "p006", "p005"},
			nextCursor: strPtr("p005"),
		},
		{
			name:       "unknown cursor starts from beginning",
			cursor:     "does-not-exist",
			limit:      2,
			expected:   []string{"p010", "p009"},
			nextCursor: strPtr("p009"),
		},
		{
			name:     "last page exactly fills",
			cursor:   "p004",
			limit:    3,
			expected: []string{"p003", "p002", "p001"},
		},
		{
			name:     "last page partially fills",
			cursor:   "p003",
			limit:    5,
			expected: []string{"p002", "p001"},
		},
		{
			name:     "cursor on last item",
			cursor:   "p001",
			limit:    5,
			expected: []string{},
		},
		{
			name:     "limit larger than feed",
			cursor:   "",
			limit:    50,
			expected: order,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, next := feeds.Paginate(order, tt.cursor, tt.limit)
			assert.Equal(t, tt.expected, page)
			assert.Equal(t, tt.nextCursor, next)
		})
	}
}

func TestPaginateWalksWholeFeed(t *testing.T) {
	order := ids(23)

	for limit := 1; limit <= 25; limit++ {
		t.Run(fmt.Sprintf("limit %d", limit), func(t *testing.T) {
			var collected []string
			cursor := ""
			for pages := 0; ; pages++ {
				require.Less(t, pages, len(order)+1, "pagination did not terminate")
				page, next := feeds.Paginate(order, cursor, limit)
				collected = append(collected, page...)
				if next == nil {
					break
				}
				cursor = *next
			}
			assert.Equal(t, order, collected)
		})
	}
}

func TestPaginateDoesNotAliasOrder(t *testing.T) {
	order := ids(5)
	page, _ := feeds.Paginate(order, "", 2)
	page[0] = "changed"
	assert.Equal(t, "p005", order[0])
}

func strPtr(s string) *string {
	return &s
}
