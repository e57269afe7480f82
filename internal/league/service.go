package league

import (
	"encoding/json"
	"math/rand"
	"sort"
	"sync"

	"cardleague/internal/catalog"
	"cardleague/internal/config"
	"cardleague/internal/domain"
	"cardleague/internal/economy"
	"cardleague/internal/playoff"
	"cardleague/internal/schedule"
	"cardleague/internal/store"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Service is the command layer over the League aggregate. Commands run
// serially under one mutex: the engine is a single-session world advanced
// by discrete user-triggered operations.
type Service struct {
	mu sync.Mutex
	sf singleflight.Group

	cfg      *config.Config
	logger   zerolog.Logger
	rng      *rand.Rand
	gen      *catalog.Generator
	sched    *schedule.Scheduler
	playoffs *playoff.Engine
	economy  *economy.Manager
	seasons  SeasonProcessor
	store    *store.Store

	league *domain.League
}

// SeasonProcessor is the season-end pipeline the service drives.
type SeasonProcessor interface {
	CalculateAwards(l *domain.League) (domain.AwardSet, error)
	ApplyAwardCostBumps(l *domain.League, awards domain.AwardSet)
	ApplyPatch(l *domain.League) domain.Patch
	ProcessRetirements(l *domain.League) ([]domain.Retirement, []domain.RookieNote, error)
	Archive(l *domain.League, standings []domain.StandingRow, awards domain.AwardSet, patch domain.Patch, retired []domain.Retirement, rookies []domain.RookieNote) error
}

func New(
	cfg *config.Config,
	logger zerolog.Logger,
	rng *rand.Rand,
	gen *catalog.Generator,
	sched *schedule.Scheduler,
	playoffs *playoff.Engine,
	econ *economy.Manager,
	seasons SeasonProcessor,
	st *store.Store,
) *Service {
	return &Service{
		cfg:      cfg,
		logger:   logger,
		rng:      rng,
		gen:      gen,
		sched:    sched,
		playoffs: playoffs,
		economy:  econ,
		seasons:  seasons,
		store:    st,
	}
}

// Bootstrap loads the persisted league, or generates a fresh one when no
// save file exists yet.
func (s *Service) Bootstrap() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.store.Load()
	if err != nil {
		return err
	}
	if l != nil {
		s.league = l
		return nil
	}
	s.logger.Info().Msg("no saved state, generating fresh league")
	return s.resetLocked()
}

// Reset discards the world and regenerates Season 1 from the configured
// seed, then persists it.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.resetLocked(); err != nil {
		return err
	}
	return s.store.Save(s.league)
}

func (s *Service) resetLocked() error {
	s.rng.Seed(s.cfg.Seed)
	l, err := s.newLeague()
	if err != nil {
		return err
	}
	s.league = l
	s.logger.Info().Int64("seed", s.cfg.Seed).Msg("league reset")
	return nil
}

// Save persists the aggregate. Concurrent save requests collapse into one
// write.
func (s *Service) Save() error {
	_, err, _ := s.sf.Do("save", func() (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return nil, s.store.Save(s.league)
	})
	return err
}

// AdvanceWeek simulates the next regular-season week.
func (s *Service) AdvanceWeek() (*schedule.WeekReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.AdvanceWeek(s.league)
}

// RunPlayoffs executes the postseason bracket to a champion.
func (s *Service) RunPlayoffs() (*domain.Playoffs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playoffs.Run(s.league, s.sched.Standings(s.league))
}

// FinishSeason runs the season-end pipeline after a champion is crowned:
// awards, cost bumps, the balance patch, retirements and rookies, archive,
// and the next season's calendar.
func (s *Service) FinishSeason() (*domain.SeasonArchive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishSeasonLocked()
}

func (s *Service) finishSeasonLocked() (*domain.SeasonArchive, error) {
	l := s.league
	standings := s.sched.Standings(l)
	awards, err := s.seasons.CalculateAwards(l)
	if err != nil {
		return nil, err
	}
	s.seasons.ApplyAwardCostBumps(l, awards)
	patch := s.seasons.ApplyPatch(l)
	retired, rookies, err := s.seasons.ProcessRetirements(l)
	if err != nil {
		return nil, err
	}
	if err := s.seasons.Archive(l, standings, awards, patch, retired, rookies); err != nil {
		return nil, err
	}
	s.sched.GenerateCalendar(l)

	archived := l.History[len(l.History)-1]
	return &archived, nil
}

// RunSeason fast-forwards: remaining weeks, playoffs, season end, save.
func (s *Service) RunSeason() (*domain.SeasonArchive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.league
	for l.Phase == domain.PhaseRegular {
		if _, err := s.sched.AdvanceWeek(l); err != nil {
			return nil, err
		}
	}
	if l.Phase == domain.PhasePlayoffs {
		if _, err := s.playoffs.Run(l, s.sched.Standings(l)); err != nil {
			return nil, err
		}
	}
	archived, err := s.finishSeasonLocked()
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(l); err != nil {
		return nil, err
	}
	return archived, nil
}

// ProposeTrade validates and atomically executes a one-for-one card swap.
func (s *Service) ProposeTrade(teamA, cardOut, teamB, cardIn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.economy.ProposeTrade(s.league, teamA, cardOut, teamB, cardIn)
}

// PurchaseShopItem buys a boost or fatigue reset for a team.
func (s *Service) PurchaseShopItem(teamID, itemKey, targetCard string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.economy.Purchase(s.league, teamID, itemKey, targetCard)
}

func (s *Service) ShopCatalog() []economy.ShopItem {
	return economy.Catalog
}

// Standings returns the current ordered table.
func (s *Service) Standings() []domain.StandingRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.Standings(s.league)
}

// StateJSON serializes the full aggregate for the UI.
func (s *Service) StateJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.league)
}

// History returns the archived seasons, oldest first.
func (s *Service) History() []domain.SeasonArchive {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.SeasonArchive, len(s.league.History))
	copy(out, s.league.History)
	return out
}

// Records folds the archived seasons into the all-time record book: the
// best and worst single-season marks and the most-decorated franchises.
func (s *Service) Records() domain.LeagueRecords {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec domain.LeagueRecords
	for _, arch := range s.league.History {
		for _, row := range arch.Standings {
			mark := domain.RecordMark{
				Season:   arch.Season,
				TeamID:   row.TeamID,
				TeamName: row.Name,
				Wins:     row.Wins,
				Losses:   row.Losses,
			}
			if rec.BestSeason == nil || mark.Wins > rec.BestSeason.Wins {
				m := mark
				rec.BestSeason = &m
			}
			if rec.WorstSeason == nil || mark.Wins < rec.WorstSeason.Wins {
				m := mark
				rec.WorstSeason = &m
			}
		}
	}
	for _, t := range s.league.Teams {
		switch {
		case t.Titles > rec.TitleCount:
			rec.TitleCount = t.Titles
			rec.MostTitles = []string{t.Name}
		case t.Titles == rec.TitleCount && t.Titles > 0:
			rec.MostTitles = append(rec.MostTitles, t.Name)
		}
	}
	sort.Strings(rec.MostTitles)
	return rec
}

// HOFEntry is one row of the Hall-of-Fame probability table.
type HOFEntry struct {
	CardID string   `json:"card_id"`
	Name   string   `json:"name"`
	Prob   float64  `json:"prob"`
	Frozen bool     `json:"frozen"`
	Awards []string `json:"awards,omitempty"`
}

// HOF returns the probability table, highest first.
func (s *Service) HOF() []HOFEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]HOFEntry, 0, len(s.league.Cards))
	for _, c := range s.league.Cards {
		entries = append(entries, HOFEntry{
			CardID: c.ID,
			Name:   c.Name,
			Prob:   c.HOFProb,
			Frozen: c.HOFFrozen,
			Awards: c.Awards,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Prob != entries[j].Prob {
			return entries[i].Prob > entries[j].Prob
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}
