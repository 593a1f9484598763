package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/domain/models"
	"github.com/mamadbah2/promoboard/internal/repository/memory"
)

// Notifier receives the operator-facing outcome of each mutation.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// Options feeds the registry filter dropdowns.
type Options struct {
	Names      []string     `json:"names"`
	Projects   []string     `json:"projects"`
	Priorities []int        `json:"priorities"`
	Types      []OptionItem `json:"types"`
	Statuses   []OptionItem `json:"statuses"`
	SortKeys   []string     `json:"sortKeys"`
	Buckets    []OptionItem `json:"statusBuckets"`
}

// OptionItem is a code with its caption.
type OptionItem struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Service owns every mutation of the promotion registry.
type Service struct {
	store          *memory.PromotionStore
	units          UnitSource
	notifier       Notifier
	defaultProject string
	logger         *zap.Logger
	now            func() time.Time
	newID          func() string
}

// NewService wires a registry service.
func NewService(store *memory.PromotionStore, units UnitSource, notifier Notifier, defaultProject string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Service{
		store:          store,
		units:          units,
		notifier:       notifier,
		defaultProject: defaultProject,
		logger:         logger,
		now:            time.Now,
		newID:          func() string { return "p-" + uuid.NewString() },
	}
}

// All returns the registry in stored order.
func (s *Service) All() []models.Promotion {
	return s.store.List()
}

// List returns the filtered and sorted registry view.
func (s *Service) List(f Filter, srt Sort) ([]models.Promotion, error) {
	return Apply(s.store.List(), f, srt)
}

// Get returns one promotion.
func (s *Service) Get(id string) (models.Promotion, error) {
	p, ok := s.store.Get(id)
	if !ok {
		return models.Promotion{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

// Options collects the distinct filter values of the current registry.
func (s *Service) Options() Options {
	names := map[string]struct{}{}
	projects := map[string]struct{}{}
	for _, p := range s.store.List() {
		names[p.Name] = struct{}{}
		projects[p.Project] = struct{}{}
	}

	opts := Options{
		Names:      sortedKeys(names),
		Projects:   sortedKeys(projects),
		Priorities: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		SortKeys:   SortKeys(),
		Buckets: []OptionItem{
			{Value: BucketActive, Label: "Активные"},
			{Value: BucketDeactivated, Label: "Деактивированы"},
		},
	}
	for _, t := range models.PromotionTypes {
		opts.Types = append(opts.Types, OptionItem{Value: string(t), Label: t.Label()})
	}
	for _, st := range models.PromotionStatuses {
		opts.Statuses = append(opts.Statuses, OptionItem{Value: string(st), Label: st.Label()})
	}
	return opts
}

// Save creates or updates a promotion from the form payload. An id that matches an
// existing promotion updates it in place; anything else is prepended as new.
func (s *Service) Save(in PromotionInput, user string) (models.Promotion, bool, error) {
	p, err := in.Build(Defaults{Project: s.defaultProject, Today: s.now()}, s.units)
	if err != nil {
		s.notifier.Error("Не удалось сохранить акцию")
		return models.Promotion{}, false, err
	}

	existing, found := models.Promotion{}, false
	if p.ID != "" {
		existing, found = s.store.Get(p.ID)
	} else {
		p.ID = s.newID()
	}

	action := "Создание акции"
	if found {
		action = "Изменение акции"
		p.AuditLog = existing.AuditLog
		if strings.TrimSpace(in.CreatedAt) == "" {
			p.CreatedAt = existing.CreatedAt
		}
		if p.Appearance == nil {
			p.Appearance = existing.Appearance
		}
	}
	s.audit(&p, user, action, describeChanges(existing, p, found))

	s.store.Upsert(p)

	if found {
		s.notifier.Success("Изменения сохранены")
	} else {
		s.notifier.Success("Акция успешно создана")
	}
	s.logger.Info("promotion saved", zap.String("id", p.ID), zap.Bool("created", !found), zap.String("user", user))

	return p.Clone(), !found, nil
}

// Duplicate prepends an active copy of the promotion with a fresh id and today's date.
func (s *Service) Duplicate(id, user string) (models.Promotion, error) {
	src, ok := s.store.Get(id)
	if !ok {
		return models.Promotion{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	cp := src.Clone()
	cp.ID = s.newID()
	cp.Name = src.CopyName()
	cp.CreatedAt = s.now().Format(models.DateLayout)
	cp.Status = models.StatusActive
	cp.AuditLog = nil
	s.audit(&cp, user, "Копирование акции", "из "+src.ID)

	s.store.Upsert(cp)
	s.notifier.Success("Создана копия: " + cp.Name)
	s.logger.Info("promotion duplicated", zap.String("source", id), zap.String("id", cp.ID))

	return cp.Clone(), nil
}

// Delete removes a promotion. Unknown ids are a silent no-op.
func (s *Service) Delete(id string) bool {
	removed := s.store.Delete(id)
	if len(removed) == 0 {
		s.logger.Debug("delete ignored, promotion not found", zap.String("id", id))
		return false
	}
	s.notifier.Success(fmt.Sprintf("Акция \"%s\" удалена", removed[0].Name))
	s.logger.Info("promotion deleted", zap.String("id", id))
	return true
}

// BulkDelete removes every selected promotion and returns how many were removed.
func (s *Service) BulkDelete(ids []string) int {
	removed := s.store.Delete(ids...)
	if len(removed) > 0 {
		s.notifier.Success("Акции удалены")
	}
	s.logger.Info("promotions bulk deleted", zap.Int("requested", len(ids)), zap.Int("removed", len(removed)))
	return len(removed)
}

// Toggle flips a promotion between active and archived. Any non-active status activates.
func (s *Service) Toggle(id, user string) (models.Promotion, error) {
	var out models.Promotion
	var activated bool
	n := s.store.Update([]string{id}, func(p *models.Promotion) bool {
		activated = !p.Active()
		if activated {
			p.Status = models.StatusActive
		} else {
			p.Status = models.StatusArchived
		}
		s.audit(p, user, "Смена статуса", p.Status.Label())
		out = p.Clone()
		return true
	})
	if n == 0 {
		return models.Promotion{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if activated {
		s.notifier.Success("Акция активирована")
	} else {
		s.notifier.Success("Акция деактивирована")
	}
	return out, nil
}

// BulkStatus sets status on every selected promotion. Any transition is allowed.
func (s *Service) BulkStatus(ids []string, status models.PromotionStatus, user string) (int, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	n := s.store.Update(ids, func(p *models.Promotion) bool {
		p.Status = status
		s.audit(p, user, "Смена статуса", status.Label())
		return true
	})

	s.notifier.Success(fmt.Sprintf("Статус изменен для %d акций", n))
	s.logger.Info("bulk status change", zap.String("status", string(status)), zap.Int("updated", n))
	return n, nil
}

// BulkPeriod applies an explicit period change to every selected promotion.
// Promotions whose resulting end would precede their start are left untouched.
func (s *Service) BulkPeriod(ids []string, change PeriodChange, user string) (int, error) {
	change, err := change.Normalize()
	if err != nil {
		s.notifier.Error("Не удалось изменить период")
		return 0, err
	}
	if change.NoOp() {
		s.notifier.Success("Период обновлен для 0 акций")
		return 0, nil
	}

	n := s.store.Update(ids, func(p *models.Promotion) bool {
		start := change.Start.apply(p.StartDate)
		end := change.End.apply(p.EndDate)
		if end != "" && end < start {
			s.logger.Warn("bulk period skipped, end precedes start",
				zap.String("id", p.ID), zap.String("start", start), zap.String("end", end))
			return false
		}
		if start == p.StartDate && end == p.EndDate {
			return false
		}
		s.audit(p, user, "Изменение периода", fmt.Sprintf("%s — %s → %s — %s", p.StartDate, p.EndDate, start, end))
		p.StartDate, p.EndDate = start, end
		return true
	})

	s.notifier.Success(fmt.Sprintf("Период обновлен для %d акций", n))
	return n, nil
}

// Appearance returns the badge settings, creating the defaults on first access.
func (s *Service) Appearance(id string) (models.AppearanceSettings, error) {
	var out models.AppearanceSettings
	n := s.store.Update([]string{id}, func(p *models.Promotion) bool {
		if p.Appearance == nil {
			a := models.DefaultAppearance()
			p.Appearance = &a
		}
		out = *p.Appearance
		return true
	})
	if n == 0 {
		return models.AppearanceSettings{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return out, nil
}

// SaveAppearance replaces the badge settings of a promotion.
func (s *Service) SaveAppearance(id string, settings models.AppearanceSettings, user string) error {
	if len([]rune(settings.BadgeTooltipText)) > models.MaxTooltipLength {
		return fmt.Errorf("%w: tooltip longer than %d characters", ErrInvalidInput, models.MaxTooltipLength)
	}
	n := s.store.Update([]string{id}, func(p *models.Promotion) bool {
		a := settings
		p.Appearance = &a
		s.audit(p, user, "Настройка отображения", "")
		return true
	})
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.notifier.Success("Настройки отображения сохранены")
	return nil
}

// IsValidation reports whether err is a caller mistake rather than a lookup miss.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrUnknownSortKey)
}

func (s *Service) audit(p *models.Promotion, user, action, changes string) {
	if user == "" {
		user = "system"
	}
	p.AuditLog = append(p.AuditLog, models.AuditEntry{
		ID:        uuid.NewString(),
		Timestamp: s.now().UTC(),
		User:      user,
		Action:    action,
		Changes:   changes,
	})
}

func describeChanges(before, after models.Promotion, existed bool) string {
	if !existed {
		return ""
	}
	var parts []string
	if before.Name != after.Name {
		parts = append(parts, fmt.Sprintf("название: %s → %s", before.Name, after.Name))
	}
	if before.Status != after.Status {
		parts = append(parts, fmt.Sprintf("статус: %s → %s", before.Status.Label(), after.Status.Label()))
	}
	if before.AdjustmentValue != after.AdjustmentValue {
		parts = append(parts, fmt.Sprintf("значение: %g → %g", before.AdjustmentValue, after.AdjustmentValue))
	}
	if before.Priority != after.Priority {
		parts = append(parts, fmt.Sprintf("приоритет: %d → %d", before.Priority, after.Priority))
	}
	if before.StartDate != after.StartDate || before.EndDate != after.EndDate {
		parts = append(parts, fmt.Sprintf("период: %s — %s → %s — %s", before.StartDate, before.EndDate, after.StartDate, after.EndDate))
	}
	if len(before.UnitIDs) != len(after.UnitIDs) {
		parts = append(parts, fmt.Sprintf("помещений: %d → %d", len(before.UnitIDs), len(after.UnitIDs)))
	}
	return strings.Join(parts, "; ")
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
