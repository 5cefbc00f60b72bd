package quizstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewInMemoryStore() Store {
	return &memoryStore{docs: map[string]Document{}}
}

func (m *memoryStore) Put(_ context.Context, d Document) error {
	if d.ID == "" {
		return errors.New("document id is required")
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.docs[d.ID]; ok {
		d.CreatedAt = old.CreatedAt
	}
	m.docs[d.ID] = d
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return d, nil
}

func (m *memoryStore) List(_ context.Context, opts ListOpts) ([]Summary, error) {
	opts = opts.normalized()
	term := strings.ToLower(strings.TrimSpace(opts.Q))
	m.mu.RLock()
	all := make([]Summary, 0, len(m.docs))
	for _, d := range m.docs {
		if term != "" && !strings.Contains(strings.ToLower(d.Filename), term) && !strings.Contains(strings.ToLower(d.Title), term) {
			continue
		}
		all = append(all, d.Summary())
	}
	m.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	if opts.Offset >= len(all) {
		return []Summary{}, nil
	}
	all = all[opts.Offset:]
	if len(all) > opts.Limit {
		all = all[:opts.Limit]
	}
	return all, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	return nil
}
