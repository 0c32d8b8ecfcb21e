package logic

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"fastexplorer/internal/domain"
)

// SortItems orders items in place. Directories always come first; desc
// reverses the order inside each group. Ties fall back to the name.
func SortItems(items []domain.FileItem, by domain.SortCriteria, desc bool) {
	slices.SortStableFunc(items, func(a, b domain.FileItem) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}

		c := compareBy(a, b, by)
		if c == 0 && by != domain.SortByName {
			c = compareNames(a.Name, b.Name)
		}
		if desc {
			c = -c
		}
		return c
	})
}

func compareBy(a, b domain.FileItem, by domain.SortCriteria) int {
	switch by {
	case domain.SortBySize:
		return cmp.Compare(a.Size, b.Size)
	case domain.SortByType:
		return strings.Compare(a.Ext(), b.Ext())
	case domain.SortByDate:
		return a.ModTime.Compare(b.ModTime)
	default:
		return compareNames(a.Name, b.Name)
	}
}

func compareNames(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// ItemsFromPaths turns search matches into rows sorted by display name.
// Only name and path are filled; matches are not stat'ed.
func ItemsFromPaths(paths []string) []domain.FileItem {
	items := make([]domain.FileItem, len(paths))
	for i, p := range paths {
		items[i] = domain.FileItem{Name: filepath.Base(p), Path: p}
	}
	sortByDisplayName(items)
	return items
}

func sortByDisplayName(items []domain.FileItem) {
	slices.SortStableFunc(items, func(a, b domain.FileItem) int {
		if c := compareNames(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
}
