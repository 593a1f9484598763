package chessboard

import (
	"slices"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

// Selection is an ordered set of unit ids. Operations return a new Selection and
// never modify the receiver.
type Selection []string

// Contains reports whether the unit is selected.
func (s Selection) Contains(id string) bool {
	return slices.Contains(s, id)
}

// Union appends the ids not already present.
func (s Selection) Union(ids ...string) Selection {
	seen := make(map[string]struct{}, len(s)+len(ids))
	out := make(Selection, 0, len(s)+len(ids))
	for _, id := range append(append([]string(nil), s...), ids...) {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Without removes the given ids.
func (s Selection) Without(ids ...string) Selection {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := make(Selection, 0, len(s))
	for _, id := range s {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// ContainsAll reports whether every id is selected. An empty list is never "all selected".
func (s Selection) ContainsAll(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}

// toggleGroup deselects the group when all of it is selected, otherwise selects the union.
func (s Selection) toggleGroup(ids []string) Selection {
	if len(ids) == 0 {
		return s.Union()
	}
	if s.ContainsAll(ids) {
		return s.Without(ids...)
	}
	return s.Union(ids...)
}

func availableIDs(units []models.Unit, keep func(models.Unit) bool) []string {
	var ids []string
	for _, u := range units {
		if u.Available() && keep(u) {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

// stackOf returns the stack position a unit occupies.
func stackOf(u models.Unit) (string, bool) {
	for _, st := range models.Stacks {
		if u.HasStack(st) {
			return st, true
		}
	}
	return "", false
}
