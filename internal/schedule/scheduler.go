package schedule

import (
	"math/rand"
	"sort"

	"cardleague/internal/constants"
	"cardleague/internal/domain"
	"cardleague/internal/sim"

	"github.com/rs/zerolog"
)

// WeekReport summarizes one advance-week command.
type WeekReport struct {
	Week    int           `json:"week"`
	Played  int           `json:"played"`
	Results []domain.Game `json:"results"`
}

// Scheduler owns the regular-season calendar: generation, week advancement
// and the standings table.
type Scheduler struct {
	rng    *rand.Rand
	sim    *sim.Simulator
	logger zerolog.Logger
}

func New(rng *rand.Rand, simulator *sim.Simulator, logger zerolog.Logger) *Scheduler {
	return &Scheduler{rng: rng, sim: simulator, logger: logger}
}

// GenerateCalendar builds the season calendar: every team plays exactly
// GamesPerTeamWeek games each week for RegularSeasonWeeks weeks, 40 games
// per team total. Home assignment balances home-game counts; rivalry games
// follow the fixed pairing policy and are flagged symmetrically.
func (s *Scheduler) GenerateCalendar(l *domain.League) {
	rivals := RivalMap(l)
	l.Calendar = l.Calendar[:0]

	n := len(l.Teams)
	homeCount := make(map[string]int, n)
	for week := 1; week <= constants.RegularSeasonWeeks; week++ {
		for round := 0; round < constants.GamesPerTeamWeek; round++ {
			perm := s.rng.Perm(n)
			for k := 0; k+1 < n; k += 2 {
				a := l.Teams[perm[k]]
				b := l.Teams[perm[k+1]]
				home, away := a, b
				if homeCount[b.ID] < homeCount[a.ID] {
					home, away = b, a
				}
				homeCount[home.ID]++
				l.Calendar = append(l.Calendar, &domain.Game{
					Week:    week,
					Home:    home.ID,
					Away:    away.ID,
					Rivalry: rivals[home.ID] == away.ID,
				})
			}
		}
	}

	s.logger.Info().
		Int("games", len(l.Calendar)).
		Int("weeks", constants.RegularSeasonWeeks).
		Msg("calendar generated")
}

// RivalMap derives the fixed rivalry pairing: adjacent teams in league
// order are rivals, which makes the flag symmetric by construction.
func RivalMap(l *domain.League) map[string]string {
	rivals := make(map[string]string, len(l.Teams))
	for i := 0; i+1 < len(l.Teams); i += 2 {
		rivals[l.Teams[i].ID] = l.Teams[i+1].ID
		rivals[l.Teams[i+1].ID] = l.Teams[i].ID
	}
	return rivals
}

// AdvanceWeek simulates every unplayed game of the next week, records
// results into the calendar and standings, and bumps the week counter.
// Re-invoking on a fully played week reports zero games advanced.
func (s *Scheduler) AdvanceWeek(l *domain.League) (*WeekReport, error) {
	if l.Phase != domain.PhaseRegular {
		return nil, &domain.InvalidPhaseError{Op: "advance week", Phase: l.Phase}
	}
	if l.Week >= constants.RegularSeasonWeeks {
		return nil, &domain.InvalidPhaseError{Op: "advance week", Phase: l.Phase}
	}

	week := l.Week + 1
	report := &WeekReport{Week: week}
	for _, g := range l.Calendar {
		if g.Week != week || g.Played {
			continue
		}
		home, err := l.Team(g.Home)
		if err != nil {
			return nil, err
		}
		away, err := l.Team(g.Away)
		if err != nil {
			return nil, err
		}
		res, err := s.sim.Simulate(l, home, away, g.Rivalry, sim.ScopeRegular)
		if err != nil {
			return nil, err
		}
		g.Played = true
		g.HomeScore = res.HomeScore
		g.AwayScore = res.AwayScore
		g.Winner = res.Winner
		recordResult(l, g, home, away)
		report.Played++
		report.Results = append(report.Results, *g)
	}

	l.Week = week
	if l.Week == constants.RegularSeasonWeeks {
		l.Phase = domain.PhasePlayoffs
		s.logger.Info().Int("season", l.Season).Msg("regular season complete, playoffs open")
	}

	s.logger.Info().
		Int("week", week).
		Int("played", report.Played).
		Msg("week advanced")
	return report, nil
}

// recordResult folds a played game into team standings and the rivalry
// record book.
func recordResult(l *domain.League, g *domain.Game, home, away *domain.Team) {
	home.PointsFor += g.HomeScore
	home.PointsAgainst += g.AwayScore
	away.PointsFor += g.AwayScore
	away.PointsAgainst += g.HomeScore

	winner, loser := home, away
	if g.Winner == away.ID {
		winner, loser = away, home
	}
	winner.Wins++
	loser.Losses++
	if winner.Streak >= 0 {
		winner.Streak++
	} else {
		winner.Streak = 1
	}
	if loser.Streak <= 0 {
		loser.Streak--
	} else {
		loser.Streak = -1
	}

	key := domain.RivalryKey(home.ID, away.ID)
	rec, ok := l.Rivalries[key]
	if !ok {
		rec = &domain.RivalryRecord{}
		l.Rivalries[key] = rec
	}
	rec.Games++
	lowID := home.ID
	if away.ID < lowID {
		lowID = away.ID
	}
	if g.Winner == lowID {
		rec.HomeWins++
	} else {
		rec.AwayWins++
	}
}

// Standings orders teams by wins, then point differential, then the
// head-to-head record between the tied pair, then name.
func (s *Scheduler) Standings(l *domain.League) []domain.StandingRow {
	h2h := headToHead(l)

	rows := make([]domain.StandingRow, 0, len(l.Teams))
	for _, t := range l.Teams {
		rows = append(rows, domain.StandingRow{
			TeamID:        t.ID,
			Name:          t.Name,
			Wins:          t.Wins,
			Losses:        t.Losses,
			PointsFor:     t.PointsFor,
			PointsAgainst: t.PointsAgainst,
			Diff:          t.PointsFor - t.PointsAgainst,
			Streak:        t.Streak,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Diff != b.Diff {
			return a.Diff > b.Diff
		}
		aw := h2h[a.TeamID][b.TeamID]
		bw := h2h[b.TeamID][a.TeamID]
		if aw != bw {
			return aw > bw
		}
		return a.Name < b.Name
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// headToHead counts wins per team against each opponent from played games.
func headToHead(l *domain.League) map[string]map[string]int {
	h2h := make(map[string]map[string]int, len(l.Teams))
	for _, g := range l.Calendar {
		if !g.Played {
			continue
		}
		if h2h[g.Winner] == nil {
			h2h[g.Winner] = make(map[string]int)
		}
		loser := g.Away
		if g.Winner == g.Away {
			loser = g.Home
		}
		h2h[g.Winner][loser]++
	}
	return h2h
}
