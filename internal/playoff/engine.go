package playoff

import (
	"cardleague/internal/constants"
	"cardleague/internal/domain"
	"cardleague/internal/sim"

	"github.com/rs/zerolog"
)

// Engine runs the 16-team postseason bracket: BO3, then BO5, BO5 and a BO7
// final. Each round halves the field until a champion remains.
type Engine struct {
	sim    *sim.Simulator
	logger zerolog.Logger
}

func New(simulator *sim.Simulator, logger zerolog.Logger) *Engine {
	return &Engine{sim: simulator, logger: logger}
}

// Seed builds the bracket from final regular-season standings: the top 16
// teams, paired 1v16, 2v15 and so on.
func (e *Engine) Seed(l *domain.League, standings []domain.StandingRow) error {
	if l.Phase != domain.PhasePlayoffs {
		return &domain.InvalidPhaseError{Op: "seed playoffs", Phase: l.Phase}
	}
	seeds := make([]string, constants.PlayoffField)
	for i := 0; i < constants.PlayoffField; i++ {
		seeds[i] = standings[i].TeamID
	}

	first := make([]domain.Series, 0, constants.PlayoffField/2)
	for i := 0; i < constants.PlayoffField/2; i++ {
		first = append(first, domain.Series{
			Round:      1,
			HomeSeed:   i + 1,
			AwaySeed:   constants.PlayoffField - i,
			Home:       seeds[i],
			Away:       seeds[constants.PlayoffField-1-i],
			WinsNeeded: constants.SeriesBestOf[0]/2 + 1,
		})
	}
	l.Playoffs = &domain.Playoffs{Seeds: seeds, Rounds: [][]domain.Series{first}}
	e.logger.Info().Int("season", l.Season).Msg("playoff bracket seeded")
	return nil
}

// Run executes the bracket to a champion. It seeds first if no bracket
// exists yet, and is rejected outside the playoff phase.
func (e *Engine) Run(l *domain.League, standings []domain.StandingRow) (*domain.Playoffs, error) {
	if l.Phase != domain.PhasePlayoffs {
		return nil, &domain.InvalidPhaseError{Op: "run playoffs", Phase: l.Phase}
	}
	if l.Playoffs == nil || len(l.Playoffs.Rounds) == 0 {
		if err := e.Seed(l, standings); err != nil {
			return nil, err
		}
	}

	for round := 0; round < constants.PlayoffRounds; round++ {
		scope := sim.ScopePlayoff
		if round == constants.PlayoffRounds-1 {
			scope = sim.ScopeFinals
		}
		series := l.Playoffs.Rounds[round]
		winners := make([]domain.Series, 0, len(series)/2)
		for i := range series {
			if err := e.runSeries(l, &series[i], scope); err != nil {
				return nil, err
			}
		}
		l.Playoffs.Rounds[round] = series

		if round == constants.PlayoffRounds-1 {
			break
		}
		// winners pair off in bracket order for the next round
		for i := 0; i+1 < len(series); i += 2 {
			a, b := &series[i], &series[i+1]
			next := domain.Series{
				Round:      round + 2,
				HomeSeed:   winnerSeed(a),
				AwaySeed:   winnerSeed(b),
				Home:       a.Winner,
				Away:       b.Winner,
				WinsNeeded: constants.SeriesBestOf[round+1]/2 + 1,
			}
			if next.AwaySeed < next.HomeSeed {
				next.Home, next.Away = next.Away, next.Home
				next.HomeSeed, next.AwaySeed = next.AwaySeed, next.HomeSeed
			}
			winners = append(winners, next)
		}
		l.Playoffs.Rounds = append(l.Playoffs.Rounds, winners)
	}

	final := l.Playoffs.Rounds[constants.PlayoffRounds-1][0]
	l.Playoffs.Champion = final.Winner
	l.Phase = domain.PhaseComplete

	champ, err := l.Team(final.Winner)
	if err != nil {
		return nil, err
	}
	champ.Titles++
	l.Log("Playoffs: " + champ.Name + " won the championship")
	e.logger.Info().
		Int("season", l.Season).
		Str("champion", champ.Name).
		Msg("playoffs complete")
	return l.Playoffs, nil
}

// runSeries plays games until one side reaches the clinch count. The higher
// seed hosts every game; rivalry variance never applies in the postseason.
func (e *Engine) runSeries(l *domain.League, s *domain.Series, scope sim.Scope) error {
	home, err := l.Team(s.Home)
	if err != nil {
		return err
	}
	away, err := l.Team(s.Away)
	if err != nil {
		return err
	}
	for s.HomeWins < s.WinsNeeded && s.AwayWins < s.WinsNeeded {
		res, err := e.sim.Simulate(l, home, away, false, scope)
		if err != nil {
			return err
		}
		g := domain.Game{
			Week:      len(s.Games) + 1,
			Home:      s.Home,
			Away:      s.Away,
			Played:    true,
			HomeScore: res.HomeScore,
			AwayScore: res.AwayScore,
			Winner:    res.Winner,
		}
		s.Games = append(s.Games, g)
		if res.Winner == s.Home {
			s.HomeWins++
		} else {
			s.AwayWins++
		}
	}
	s.Winner = s.Home
	if s.AwayWins > s.HomeWins {
		s.Winner = s.Away
	}
	return nil
}

func winnerSeed(s *domain.Series) int {
	if s.Winner == s.Home {
		return s.HomeSeed
	}
	return s.AwaySeed
}
