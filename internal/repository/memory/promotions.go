package memory

import (
	"sync"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

// PromotionStore is the in-process registry of promotions. Order is significant:
// new promotions go to the front, edits keep their position.
type PromotionStore struct {
	mu    sync.RWMutex
	items []models.Promotion
}

// NewPromotionStore seeds the store with the given promotions.
func NewPromotionStore(seed []models.Promotion) *PromotionStore {
	items := make([]models.Promotion, 0, len(seed))
	for _, p := range seed {
		items = append(items, p.Clone())
	}
	return &PromotionStore{items: items}
}

// List returns a snapshot of every promotion in registry order.
func (s *PromotionStore) List() []models.Promotion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Promotion, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, p.Clone())
	}
	return out
}

// Get returns the promotion with the given id.
func (s *PromotionStore) Get(id string) (models.Promotion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i].Clone(), true
	}
	return models.Promotion{}, false
}

// Upsert replaces the promotion in place when the id exists, otherwise prepends it.
// It reports whether an existing record was replaced.
func (s *PromotionStore) Upsert(p models.Promotion) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(p.ID); i >= 0 {
		s.items[i] = p.Clone()
		return true
	}
	s.items = append([]models.Promotion{p.Clone()}, s.items...)
	return false
}

// Update applies fn to each promotion whose id is in ids and returns how many
// records fn reported as changed. Unknown ids are ignored.
func (s *PromotionStore) Update(ids []string, fn func(*models.Promotion) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := toSet(ids)
	changed := 0
	for i := range s.items {
		if _, ok := wanted[s.items[i].ID]; !ok {
			continue
		}
		if fn(&s.items[i]) {
			changed++
		}
	}
	return changed
}

// Delete removes the promotions with the given ids and returns the removed records.
func (s *PromotionStore) Delete(ids ...string) []models.Promotion {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := toSet(ids)
	kept := s.items[:0]
	var removed []models.Promotion
	for _, p := range s.items {
		if _, ok := wanted[p.ID]; ok {
			removed = append(removed, p)
			continue
		}
		kept = append(kept, p)
	}
	s.items = kept
	return removed
}

func (s *PromotionStore) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
