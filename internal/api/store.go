package api

import (
	"sync"

	"github.com/Garsondee/trolley-sense/internal/game"
)

// ConfigStore holds the tuning new sessions start from. The difficulty part
// is mutable over HTTP; live sessions keep the curve they started with.
type ConfigStore struct {
	mu     sync.RWMutex
	tuning game.Tuning
	diff   *game.Difficulty
}

// NewConfigStore seeds the store with t.
func NewConfigStore(t game.Tuning) *ConfigStore {
	return &ConfigStore{
		tuning: t,
		diff:   game.NewDifficulty(t.Difficulty, game.NewRand(t.Seed)),
	}
}

// Tuning returns the tuning for a new session.
func (s *ConfigStore) Tuning() game.Tuning {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.tuning
	t.Difficulty = s.diff.Config()
	return t
}

// Export returns the difficulty snapshot.
func (s *ConfigStore) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.diff.ExportSnapshot()
}

// Import replaces the difficulty from a snapshot. Errors wrap
// game.ErrConfigParse and leave the store unchanged.
func (s *ConfigStore) Import(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diff.ImportSnapshot(data)
}

// Adjust applies a partial update and returns the clamped result.
func (s *ConfigStore) Adjust(adj game.DifficultyAdjustment) game.DifficultyConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diff.Adjust(adj)
	return s.diff.Config()
}

// Reset restores the default difficulty.
func (s *ConfigStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diff.ResetToDefault()
}

// Replace swaps in a whole new tuning, as on a reload.
func (s *ConfigStore) Replace(t game.Tuning) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tuning = t
	s.diff = game.NewDifficulty(t.Difficulty, game.NewRand(t.Seed))
}
