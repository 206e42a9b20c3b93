package led

import (
	"log/slog"
	"slices"

	"github.com/smazurov/colornode/internal/events"
)

// Manager mirrors the strip state on the board status LED: solid while the
// strip is lit, off when it is black.
type Manager struct {
	controller  Controller
	eventBus    *events.Bus
	unsubscribe func()
	logger      *slog.Logger
}

// NewManager creates a manager. Call Start to begin following color events.
func NewManager(controller Controller, eventBus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{
		controller: controller,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Start subscribes to ColorAppliedEvent. Boards without a status LED are
// left alone.
func (m *Manager) Start() {
	if !slices.Contains(m.controller.Available(), RoleStatus) {
		m.logger.Info("Board has no status LED, manager idle")
		return
	}
	m.unsubscribe = events.On(m.eventBus, m.handleEvent)
	m.logger.Info("Board LED manager started")
}

// Stop unsubscribes. It is safe to call more than once.
func (m *Manager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.logger.Info("Board LED manager stopped")
}

func (m *Manager) handleEvent(e events.ColorAppliedEvent) {
	lit := !e.Color.IsOff()
	pattern := ""
	if lit {
		pattern = PatternSolid
	}
	if err := m.controller.Set(RoleStatus, lit, pattern); err != nil {
		m.logger.Warn("Failed to update status LED", "lit", lit, "error", err)
		return
	}
	m.logger.Debug("Status LED updated", "lit", lit, "color", e.Hex)
}

// Controller returns the board LED controller for direct API access.
func (m *Manager) Controller() Controller {
	return m.controller
}
