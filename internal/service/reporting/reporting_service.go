package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/domain/models"
	"github.com/mamadbah2/promoboard/internal/service/analytics"
)

// Analytics builds the report the digest summarizes.
type Analytics interface {
	Report(st analytics.State) (analytics.Report, error)
}

// Registry lists the promotions.
type Registry interface {
	All() []models.Promotion
}

// Service composes the weekly promotion digest.
type Service struct {
	analytics Analytics
	registry  Registry
	logger    *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(stats Analytics, reg Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{analytics: stats, registry: reg, logger: logger}
}

// GenerateWeeklyReport summarizes the registry and the sales it drove.
func (s *Service) GenerateWeeklyReport(ctx context.Context, now time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	promotions := s.registry.All()
	active := 0
	endingSoon := 0
	weekAhead := now.AddDate(0, 0, 7).Format(models.DateLayout)
	today := now.Format(models.DateLayout)
	for _, p := range promotions {
		if !p.Active() {
			continue
		}
		active++
		if p.EndDate != "" && p.EndDate >= today && p.EndDate <= weekAhead {
			endingSoon++
		}
	}

	report, err := s.analytics.Report(analytics.DefaultState())
	if err != nil {
		return "", fmt.Errorf("build analytics report: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Сводка по акциям на %s\n", today)
	fmt.Fprintf(&b, "Активных акций: %d из %d\n", active, len(promotions))
	if endingSoon > 0 {
		fmt.Fprintf(&b, "Заканчиваются в течение недели: %d\n", endingSoon)
	}
	fmt.Fprintf(&b, "Продано помещений: %d\n", report.KPIs.SoldUnits)
	fmt.Fprintf(&b, "Выручка: %.1f млн ₽, скидки: %.1f млн ₽", report.KPIs.RevenueMln, report.KPIs.DiscountMln)
	if len(report.Rows) > 0 {
		lead := report.Rows[0]
		fmt.Fprintf(&b, "\nЛидер по выручке: %s", lead.Name)
	}

	s.logger.Debug("weekly report generated", zap.Int("promotions", len(promotions)), zap.Int("active", active))
	return b.String(), nil
}
