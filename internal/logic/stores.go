package logic

import (
	"sync"

	"fastexplorer/internal/domain"
)

// MemoryItemStore is an in-memory implementation of ItemStore
type MemoryItemStore struct {
	mu    sync.RWMutex
	items []domain.FileItem
}

// NewMemoryItemStore creates an empty store
func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{}
}

// Replace swaps the whole content for a copy of items
func (s *MemoryItemStore) Replace(items []domain.FileItem) {
	cp := make([]domain.FileItem, len(items))
	copy(cp, items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = cp
}

func (s *MemoryItemStore) At(i int) (domain.FileItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		return domain.FileItem{}, false
	}
	return s.items[i], true
}

func (s *MemoryItemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryItemStore) All() []domain.FileItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Return a copy to prevent external modification
	result := make([]domain.FileItem, len(s.items))
	copy(result, s.items)
	return result
}

// SortByName orders the rows by display name, ties broken by path
func (s *MemoryItemStore) SortByName() {
	s.mu.Lock()
	defer s.mu.Unlock()
	sortByDisplayName(s.items)
}
