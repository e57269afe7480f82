package sim

import (
	"math"
	"math/rand"

	"cardleague/internal/config"
	"cardleague/internal/domain"
	"cardleague/internal/roster"

	"github.com/rs/zerolog"
)

// Scope marks which stat buckets a game feeds, on top of the regular ones.
type Scope int

const (
	ScopeRegular Scope = iota
	ScopePlayoff
	ScopeFinals
)

// Result is the outcome of one simulated game.
type Result struct {
	HomeScore     int
	AwayScore     int
	Winner        string // team ID
	HomeActive    []string
	AwayActive    []string
	Contributions map[string]float64 // card ID -> % share of its team's output
}

// Simulator resolves a single match from card ratings, fatigue, chemistry
// and bounded randomness. It mutates card fatigue and cumulative card stats
// and ticks boost countdowns; standings belong to the scheduler.
type Simulator struct {
	bal    config.Balance
	rng    *rand.Rand
	logger zerolog.Logger
}

func New(cfg *config.Config, rng *rand.Rand, logger zerolog.Logger) *Simulator {
	return &Simulator{bal: cfg.Balance, rng: rng, logger: logger}
}

func (s *Simulator) Simulate(l *domain.League, home, away *domain.Team, rivalry bool, scope Scope) (*Result, error) {
	homeActive, homeBench, err := roster.Lineup(l, home, s.bal)
	if err != nil {
		return nil, err
	}
	awayActive, awayBench, err := roster.Lineup(l, away, s.bal)
	if err != nil {
		return nil, err
	}

	homePower, homeMap, err := s.teamPower(l, home, homeActive)
	if err != nil {
		return nil, err
	}
	awayPower, awayMap, err := s.teamPower(l, away, awayActive)
	if err != nil {
		return nil, err
	}
	homePower *= s.bal.HomeEdge

	spread := s.bal.NoiseSpread
	if rivalry {
		spread *= s.bal.RivalryVariance
	}
	homeScore := s.score(homePower, spread)
	awayScore := s.score(awayPower, spread)

	// tie: re-roll without the rivalry multiplier, coin after ten tries
	for tries := 0; homeScore == awayScore; tries++ {
		if tries >= 10 {
			if s.rng.Intn(2) == 0 {
				homeScore++
			} else {
				awayScore++
			}
			break
		}
		homeScore = s.score(homePower, s.bal.NoiseSpread)
		awayScore = s.score(awayPower, s.bal.NoiseSpread)
	}

	winner := home.ID
	if awayScore > homeScore {
		winner = away.ID
	}

	res := &Result{
		HomeScore:     homeScore,
		AwayScore:     awayScore,
		Winner:        winner,
		HomeActive:    homeActive,
		AwayActive:    awayActive,
		Contributions: make(map[string]float64, len(homeActive)+len(awayActive)),
	}

	if err := s.applyStats(l, home, homeActive, homeBench, homeMap, scope, res); err != nil {
		return nil, err
	}
	if err := s.applyStats(l, away, awayActive, awayBench, awayMap, scope, res); err != nil {
		return nil, err
	}
	tickBoosts(home)
	tickBoosts(away)

	s.logger.Debug().
		Str("home", home.Name).
		Str("away", away.Name).
		Int("home_score", homeScore).
		Int("away_score", awayScore).
		Bool("rivalry", rivalry).
		Msg("game simulated")

	return res, nil
}

// teamPower sums effective card ratings for the active lineup and applies
// the chemistry multiplier.
func (s *Simulator) teamPower(l *domain.League, t *domain.Team, active []string) (float64, map[string]float64, error) {
	powers := make(map[string]float64, len(active))
	var total float64
	for _, id := range active {
		c, err := l.Card(id)
		if err != nil {
			return 0, nil, err
		}
		p := s.effectiveRating(c, t.Boosts)
		powers[id] = p
		total += p
	}
	mult := 1 + s.bal.ChemistryScale*(t.Chemistry-50)
	return total * mult, powers, nil
}

// effectiveRating applies active boosts and the fatigue multiplier. At full
// fatigue a card plays at its rating; at zero it plays at FatigueFloor of it.
func (s *Simulator) effectiveRating(c *domain.Card, boosts []domain.Boost) float64 {
	r := c.Rating
	for _, b := range boosts {
		if b.GamesLeft <= 0 {
			continue
		}
		if b.TeamWide || b.Target == c.ID {
			r += b.Amount
		}
	}
	factor := s.bal.FatigueFloor + (1-s.bal.FatigueFloor)*(c.Fatigue/100)
	return r * factor
}

func (s *Simulator) score(power, spread float64) int {
	noise := 1 - spread + s.rng.Float64()*2*spread
	v := int(math.Round(power * noise / s.bal.ScoreDivisor))
	if v < 0 {
		v = 0
	}
	return v
}

func (s *Simulator) applyStats(l *domain.League, t *domain.Team, active, benched []string, powers map[string]float64, scope Scope, res *Result) error {
	var total float64
	for _, p := range powers {
		total += p
	}
	if total == 0 {
		total = 1
	}
	for _, id := range active {
		c, err := l.Card(id)
		if err != nil {
			return err
		}
		pct := 100 * powers[id] / total
		res.Contributions[id] = pct
		c.Stats.GamesPlayed++
		c.Stats.ContributionSum += pct
		if id == t.Backup {
			c.Stats.BackupGames++
		}
		if scope == ScopePlayoff || scope == ScopeFinals {
			c.Stats.PlayoffGames++
		}
		if scope == ScopeFinals {
			c.Stats.FinalsGames++
			c.Stats.FinalsContribution += pct
		}
		c.Fatigue = clamp(c.Fatigue - s.uniform(s.bal.FatigueCostMin, s.bal.FatigueCostMax))
	}
	for _, id := range benched {
		c, err := l.Card(id)
		if err != nil {
			return err
		}
		c.Fatigue = clamp(c.Fatigue + s.uniform(s.bal.RestRecoveryMin, s.bal.RestRecoveryMax))
	}
	return nil
}

func (s *Simulator) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// tickBoosts counts down boost durations and drops spent ones.
func tickBoosts(t *domain.Team) {
	kept := t.Boosts[:0]
	for _, b := range t.Boosts {
		b.GamesLeft--
		if b.GamesLeft > 0 {
			kept = append(kept, b)
		}
	}
	t.Boosts = kept
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
