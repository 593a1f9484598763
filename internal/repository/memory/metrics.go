package memory

import "github.com/mamadbah2/promoboard/internal/domain/models"

// MetricsStore serves the precomputed analytics record of each promotion.
type MetricsStore struct {
	records  map[string]models.AnalyticsData
	fallback models.AnalyticsData
}

// NewMetricsStore indexes records by promotion id. The first record doubles as
// the fallback for promotions created after startup.
func NewMetricsStore(records []models.AnalyticsData) *MetricsStore {
	s := &MetricsStore{records: make(map[string]models.AnalyticsData, len(records))}
	for _, r := range records {
		s.records[r.PromoID] = r
	}
	if len(records) > 0 {
		s.fallback = records[0]
	}
	return s
}

// Lookup never fails: unknown promotions receive the fallback record.
func (s *MetricsStore) Lookup(promoID string) models.AnalyticsData {
	if r, ok := s.records[promoID]; ok {
		return r
	}
	return s.fallback
}
