package library

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Selection tracks the set of selected content hashes. Membership does
// not survive a reset reload; callers clear or rebuild it around one.
type Selection struct {
	mu       sync.Mutex
	ids      map[string]struct{}
	deleting bool
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle flips membership for one id.
func (s *Selection) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

func (s *Selection) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IDs returns the selected ids in stable order.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
}

// retain keeps only the given ids selected.
func (s *Selection) retain(keep []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		if _, ok := s.ids[id]; ok {
			next[id] = struct{}{}
		}
	}
	s.ids = next
}

func (s *Selection) Deleting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleting
}

func (s *Selection) setDeleting(v bool) {
	s.mu.Lock()
	s.deleting = v
	s.mu.Unlock()
}

// BatchDeleteError reports which ids of a batch delete failed.
type BatchDeleteError struct {
	Failed map[string]error
}

func (e *BatchDeleteError) Error() string {
	ids := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("delete failed for %d item(s): %s", len(ids), strings.Join(ids, ", "))
}

// DeleteSelected deletes every selected item. The per-item delete
// calls run concurrently and are joined before anything else happens;
// this is the only place one action keeps multiple requests in flight.
//
// Afterwards a reset load always runs, so the list reflects true
// server state no matter how the batch went. There is no optimistic
// local removal. On full success the selection is cleared and an
// invalidation event is published; on partial failure only the failed
// ids stay selected and a BatchDeleteError is returned.
//
// The caller is expected to have confirmed the destructive action with
// the user before calling.
func (l *Loop) DeleteSelected(ctx context.Context, sel *Selection, bus *Bus) error {
	if l.userID == "" {
		return errors.New("no user configured")
	}
	ids := sel.IDs()
	if len(ids) == 0 {
		return errors.New("nothing selected")
	}
	if sel.Deleting() {
		return errors.New("delete already in progress")
	}
	sel.setDeleting(true)
	defer sel.setDeleting(false)

	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := make(map[string]error)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := l.client.DeleteContent(ctx, id, l.userID); err != nil {
				mu.Lock()
				failed[id] = err
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	loadErr := l.Load(ctx, true)

	if len(failed) > 0 {
		keep := make([]string, 0, len(failed))
		for id := range failed {
			keep = append(keep, id)
		}
		sel.retain(keep)
		return &BatchDeleteError{Failed: failed}
	}

	sel.Clear()
	if bus != nil {
		bus.Publish(Event{Source: "library"})
	}
	return loadErr
}
