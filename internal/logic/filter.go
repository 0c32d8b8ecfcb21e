package logic

import (
	"strings"

	"fastexplorer/internal/domain"
	"fastexplorer/internal/search"
)

// FilterByName keeps the items whose name contains query, ignoring case
func FilterByName(items []domain.FileItem, query string) []domain.FileItem {
	if query == "" {
		return items
	}
	m := search.NewMatcher(query)
	var out []domain.FileItem
	for _, it := range items {
		if m.Match(it.Name) {
			out = append(out, it)
		}
	}
	return out
}

// FilterByExtension keeps the items whose extension is one of exts.
// Extensions compare case-insensitively, with or without a leading dot.
// No extensions means no filtering.
func FilterByExtension(items []domain.FileItem, exts ...string) []domain.FileItem {
	if len(exts) == 0 {
		return items
	}
	want := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		want[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}
	var out []domain.FileItem
	for _, it := range items {
		ext := it.Ext()
		if ext == "" {
			continue
		}
		if _, ok := want[ext]; ok {
			out = append(out, it)
		}
	}
	return out
}

// HideDotfiles drops entries whose name starts with a dot
func HideDotfiles(items []domain.FileItem) []domain.FileItem {
	var out []domain.FileItem
	for _, it := range items {
		if !strings.HasPrefix(it.Name, ".") {
			out = append(out, it)
		}
	}
	return out
}
