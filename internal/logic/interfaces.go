package logic

import "fastexplorer/internal/domain"

// ItemStore holds the rows currently presented, indexed by position
type ItemStore interface {
	Replace(items []domain.FileItem)
	At(i int) (domain.FileItem, bool)
	Len() int
	All() []domain.FileItem
	SortByName()
}
