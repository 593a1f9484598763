package memory

import "github.com/mamadbah2/promoboard/internal/domain/models"

// UnitStore is the read-only unit collection created at startup.
type UnitStore struct {
	units []models.Unit
	byID  map[string]int
}

// NewUnitStore indexes the generated units.
func NewUnitStore(units []models.Unit) *UnitStore {
	s := &UnitStore{
		units: append([]models.Unit(nil), units...),
		byID:  make(map[string]int, len(units)),
	}
	for i, u := range s.units {
		s.byID[u.ID] = i
	}
	return s
}

// All returns every unit in generation order.
func (s *UnitStore) All() []models.Unit {
	return append([]models.Unit(nil), s.units...)
}

// Get looks a unit up by id.
func (s *UnitStore) Get(id string) (models.Unit, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Unit{}, false
	}
	return s.units[i], true
}

// Exists reports whether id names a known unit.
func (s *UnitStore) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}
