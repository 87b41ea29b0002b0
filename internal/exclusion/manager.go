// Package exclusion tracks per-location category cooldowns so refresh
// operations do not keep suggesting the category the user just dismissed.
package exclusion

import (
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync"
)

// A dismissed category stays unavailable for this many refresh turns.
const cooldownTurns = 5

// Manager holds category cooldowns keyed by a normalized location. It is
// safe for concurrent use; the host service is multithreaded.
type Manager struct {
	logger *slog.Logger

	mu sync.Mutex
	// location key -> category -> turns remaining
	exclusions map[string]map[string]int
	turns      map[string]int
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger:     logger,
		exclusions: make(map[string]map[string]int),
		turns:      make(map[string]int),
	}
}

// locationKey normalizes a location string so equivalent spellings collide:
// lowercase, trimmed, hashed.
func locationKey(location string) string {
	normalized := strings.ToLower(strings.TrimSpace(location))
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])[:16]
}

// Exclude puts a category on cooldown for the location.
func (m *Manager) Exclude(location, category string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := locationKey(location)
	if m.exclusions[key] == nil {
		m.exclusions[key] = make(map[string]int)
	}
	m.exclusions[key][category] = cooldownTurns
	m.logger.Debug("category excluded",
		slog.String("location", location),
		slog.String("category", category),
		slog.Int("turns", cooldownTurns))
}

// IsExcluded reports whether a category is currently on cooldown.
func (m *Manager) IsExcluded(location, category string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exclusions[locationKey(location)][category] > 0
}

// AdvanceTurn records one refresh operation for the location, decrementing
// every active cooldown and dropping the ones that reach zero.
func (m *Manager) AdvanceTurn(location string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := locationKey(location)
	m.turns[key]++

	active, ok := m.exclusions[key]
	if !ok {
		return
	}
	for category, remaining := range active {
		remaining--
		if remaining <= 0 {
			delete(active, category)
			continue
		}
		active[category] = remaining
	}
	if len(active) == 0 {
		delete(m.exclusions, key)
		delete(m.turns, key)
	}
}

// AvailableCategories filters the given categories down to those not on
// cooldown, preserving order.
func (m *Manager) AvailableCategories(location string, all []string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.exclusions[locationKey(location)]
	available := make([]string, 0, len(all))
	for _, category := range all {
		if active[category] > 0 {
			continue
		}
		available = append(available, category)
	}
	return available
}

// ExclusionInfo returns the active cooldowns for a location with their
// remaining turns.
func (m *Manager) ExclusionInfo(location string) map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	info := make(map[string]int)
	for category, remaining := range m.exclusions[locationKey(location)] {
		info[category] = remaining
	}
	return info
}

// TurnCount returns how many refresh operations the location has seen
// since its cooldown table was last emptied.
func (m *Manager) TurnCount(location string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turns[locationKey(location)]
}

// Reset clears all cooldowns for a location.
func (m *Manager) Reset(location string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := locationKey(location)
	delete(m.exclusions, key)
	delete(m.turns, key)
}
