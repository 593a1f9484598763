package session

import (
	"strings"
	"sync"

	"github.com/mamadbah2/promoboard/internal/service/analytics"
	"github.com/mamadbah2/promoboard/internal/service/chessboard"
	"github.com/mamadbah2/promoboard/internal/service/registry"
)

// DefaultID is used when a request carries no session header.
const DefaultID = "default"

// ViewState is what one operator currently looks at: filters, sort orders,
// chart settings and the unit selection being edited.
type ViewState struct {
	Filter    registry.Filter      `json:"filter"`
	Sort      registry.Sort        `json:"sort"`
	Selected  []string             `json:"selectedPromotionIds"`
	Analytics analytics.State      `json:"analytics"`
	Units     chessboard.Selection `json:"selectedUnitIds"`
	Heatmap   bool                 `json:"heatmap"`
	Project   string               `json:"project"`
}

// NewViewState returns the state a fresh session opens with.
func NewViewState(project string) ViewState {
	return ViewState{
		Sort:      registry.DefaultSort(),
		Analytics: analytics.DefaultState(),
		Units:     chessboard.Selection{},
		Project:   project,
	}
}

func (v ViewState) clone() ViewState {
	out := v
	out.Selected = append([]string(nil), v.Selected...)
	out.Units = append(chessboard.Selection{}, v.Units...)
	return out
}

// Manager holds the view state of each session.
type Manager struct {
	sessions map[string]ViewState
	project  string
	mu       sync.RWMutex
}

// NewManager creates a session manager. New sessions open on project.
func NewManager(project string) *Manager {
	return &Manager{
		sessions: make(map[string]ViewState),
		project:  project,
	}
}

// Get returns the state of a session, or the opening state if it has none yet.
func (m *Manager) Get(id string) ViewState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if state, ok := m.sessions[key(id)]; ok {
		return state.clone()
	}
	return NewViewState(m.project)
}

// Update applies fn to the session state and stores the result. An error from fn
// leaves the stored state untouched.
func (m *Manager) Update(id string, fn func(*ViewState) error) (ViewState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(id)
	state, ok := m.sessions[k]
	if !ok {
		state = NewViewState(m.project)
	}
	next := state.clone()
	if err := fn(&next); err != nil {
		return state.clone(), err
	}
	m.sessions[k] = next
	return next.clone(), nil
}

// Clear forgets a session.
func (m *Manager) Clear(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key(id))
}

// PrunePromotions drops promotion ids failing keepPromotion from every session's
// registry selection.
func (m *Manager) PrunePromotions(keepPromotion func(id string) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, state := range m.sessions {
		kept := state.Selected[:0:0]
		for _, id := range state.Selected {
			if keepPromotion(id) {
				kept = append(kept, id)
			}
		}
		state.Selected = kept
		m.sessions[k] = state
	}
}

func key(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultID
	}
	return id
}
