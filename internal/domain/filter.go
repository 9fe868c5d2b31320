package domain

import "strings"

// FilterByTitle narrows bookmarks to entries whose title contains query as a
// case-insensitive substring. An empty query matches every entry.
// The input order is preserved and the input slice is never mutated.
// Only titles are matched; URLs and tags are ignored.
func FilterByTitle(bookmarks []Bookmark, query string) []Bookmark {
	result := make([]Bookmark, 0, len(bookmarks))

	query = strings.ToLower(query)
	if query == "" {
		return append(result, bookmarks...)
	}

	for _, b := range bookmarks {
		if strings.Contains(strings.ToLower(b.Title), query) {
			result = append(result, b)
		}
	}
	return result
}
