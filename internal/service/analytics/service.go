package analytics

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/domain/models"
	"github.com/mamadbah2/promoboard/internal/seed"
)

// ErrInvalidUnit indicates an unknown metric unit or chart range.
var ErrInvalidUnit = errors.New("invalid analytics unit")

// PromotionSource lists the registry.
type PromotionSource interface {
	All() []models.Promotion
}

// State is the per-session analytics view configuration.
type State struct {
	Filter       Filter            `json:"filter"`
	Sort         Sort              `json:"sort"`
	Unit         models.MetricUnit `json:"unit"`
	Range        models.ChartRange `json:"range"`
	LoadingUntil time.Time         `json:"loadingUntil"`
}

// DefaultState opens on pieces by month, highest revenue first.
func DefaultState() State {
	return State{Sort: DefaultSort(), Unit: models.MetricPieces, Range: models.RangeMonth}
}

// Report is everything the analytics tab shows.
type Report struct {
	Rows      []Row                `json:"rows"`
	KPIs      KPIs                 `json:"kpis"`
	Pie       []models.SeriesValue `json:"pie"`
	Chart     []models.ChartPoint  `json:"chart"`
	Unit      models.MetricUnit    `json:"unit"`
	UnitLabel string               `json:"unitLabel"`
	SoldField string               `json:"soldField"`
	Range     models.ChartRange    `json:"range"`
	Sort      Sort                 `json:"sort"`
	Loading   bool                 `json:"loading"`
}

// Service builds analytics reports over the live registry.
type Service struct {
	promotions   PromotionSource
	metrics      MetricsSource
	series       seed.TimeSeries
	reference    float64
	loadingDelay time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewService wires the analytics service.
func NewService(promotions PromotionSource, metrics MetricsSource, series seed.TimeSeries, reference float64, loadingDelay time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		promotions:   promotions,
		metrics:      metrics,
		series:       series,
		reference:    reference,
		loadingDelay: loadingDelay,
		logger:       logger,
		now:          time.Now,
	}
}

// Report renders the view described by st.
func (s *Service) Report(st State) (Report, error) {
	st = normalize(st)

	rows, err := Apply(Join(s.promotions.All(), s.metrics, s.reference), st.Filter, st.Sort)
	if err != nil {
		return Report{}, err
	}

	series := s.series.Month
	if st.Range == models.RangeWeek {
		series = s.series.Week
	}

	return Report{
		Rows:      rows,
		KPIs:      Summarize(rows),
		Pie:       Pie(rows, st.Unit),
		Chart:     Chart(series, st.Unit),
		Unit:      st.Unit,
		UnitLabel: st.Unit.Label(),
		SoldField: st.Unit.SoldField(),
		Range:     st.Range,
		Sort:      st.Sort,
		Loading:   s.now().Before(st.LoadingUntil),
	}, nil
}

// ChangeUnit switches the metric unit and marks the charts as loading for the
// configured delay.
func (s *Service) ChangeUnit(st State, unit models.MetricUnit) (State, error) {
	if !unit.Valid() {
		return st, fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}
	st.Unit = unit
	st.LoadingUntil = s.now().Add(s.loadingDelay)
	s.logger.Debug("metric unit changed", zap.String("unit", string(unit)))
	return st, nil
}

// ChangeRange switches the chart granularity.
func (s *Service) ChangeRange(st State, r models.ChartRange) (State, error) {
	if r != models.RangeWeek && r != models.RangeMonth {
		return st, fmt.Errorf("%w: range %q", ErrInvalidUnit, r)
	}
	st.Range = r
	return st, nil
}

// ClickSort applies a header click to the analytics sort.
func (s *Service) ClickSort(st State, key string) (State, error) {
	if _, ok := textFields[key]; !ok {
		if _, ok := numberFields[key]; !ok {
			return st, fmt.Errorf("%w: %s", ErrUnknownSortKey, key)
		}
	}
	st.Sort = normalize(st).Sort.Click(key)
	return st, nil
}

func normalize(st State) State {
	if st.Sort.Key == "" {
		st.Sort = DefaultSort()
	}
	if !st.Unit.Valid() {
		st.Unit = models.MetricPieces
	}
	if st.Range != models.RangeWeek {
		st.Range = models.RangeMonth
	}
	return st
}
