package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cardleague/internal/config"
	"cardleague/internal/constants"
	"cardleague/internal/domain"

	"github.com/rs/zerolog"
)

// Store persists the whole League aggregate as one JSON document. Reads are
// full-document; writes go to a temp file and rename into place so a crash
// never leaves a partial state behind.
type Store struct {
	path   string
	logger zerolog.Logger
}

func New(cfg *config.Config, logger zerolog.Logger) *Store {
	return &Store{path: cfg.SavePath, logger: logger}
}

// Load reads and verifies the persisted league. A missing file returns
// (nil, nil) so the caller can bootstrap a fresh league.
func (s *Store) Load() (*domain.League, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load", Err: err}
	}

	var l domain.League
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, &domain.CorruptStateError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if err := Verify(&l); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("path", s.path).
		Int("season", l.Season).
		Int("week", l.Week).
		Msg("league state loaded")
	return &l, nil
}

// Save serializes the aggregate and atomically replaces the state file.
func (s *Store) Save(l *domain.League) error {
	b, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".league-*.json")
	if err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &domain.PersistenceError{Op: "save", Err: err}
	}

	s.logger.Info().
		Str("path", s.path).
		Int("bytes", len(b)).
		Msg("league state saved")
	return nil
}

// Verify checks referential integrity of a loaded aggregate: every roster
// slot resolves to a catalog card, no card sits on two rosters, and every
// team is cap-legal.
func Verify(l *domain.League) error {
	if len(l.Teams) == 0 {
		return &domain.CorruptStateError{Reason: "no teams"}
	}
	if l.Cards == nil {
		return &domain.CorruptStateError{Reason: "no card catalog"}
	}

	owner := make(map[string]string)
	for _, t := range l.Teams {
		if len(t.Starters) != constants.StartersPerTeam {
			return &domain.CorruptStateError{
				Reason: fmt.Sprintf("team %q has %d starters", t.Name, len(t.Starters)),
			}
		}
		if t.Backup == "" {
			return &domain.CorruptStateError{Reason: fmt.Sprintf("team %q has no backup", t.Name)}
		}
		var cost float64
		for _, id := range t.Roster() {
			c, ok := l.Cards[id]
			if !ok {
				return &domain.CorruptStateError{
					Reason: fmt.Sprintf("team %q references unknown card %q", t.Name, id),
				}
			}
			if prev, dup := owner[id]; dup {
				return &domain.CorruptStateError{
					Reason: fmt.Sprintf("card %q on both %q and %q", id, prev, t.Name),
				}
			}
			owner[id] = t.Name
			cost += c.Cost
		}
		if cost > constants.SalaryCap+1e-9 {
			return &domain.CorruptStateError{
				Reason: fmt.Sprintf("team %q roster cost %.2f over cap", t.Name, cost),
			}
		}
	}
	return nil
}
