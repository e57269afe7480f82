package season

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"cardleague/internal/catalog"
	"cardleague/internal/constants"
	"cardleague/internal/domain"
	"cardleague/internal/roster"

	"github.com/rs/zerolog"
)

var patchNicknames = []string{
	"Tank Nerf Patch",
	"Speed Era Begins",
	"Synergy Shuffle",
	"Meta Mixer",
	"Balance Tuning",
}

// Processor runs the end-of-season pipeline: awards, award cost bumps, the
// balance patch, retirements with rookie backfill, archival and the
// Hall-of-Fame recompute.
type Processor struct {
	gen    *catalog.Generator
	rng    *rand.Rand
	logger zerolog.Logger
}

func New(gen *catalog.Generator, rng *rand.Rand, logger zerolog.Logger) *Processor {
	return &Processor{gen: gen, rng: rng, logger: logger}
}

// CalculateAwards derives the season's awards from accumulated statistics.
// It is deterministic over the stats: ties break on base rating, then name.
func (p *Processor) CalculateAwards(l *domain.League) (domain.AwardSet, error) {
	if l.Phase != domain.PhaseComplete {
		return domain.AwardSet{}, &domain.InvalidPhaseError{Op: "calculate awards", Phase: l.Phase}
	}

	var awards domain.AwardSet
	candidates := make([]*domain.Card, 0, len(l.Cards))
	for _, c := range l.Cards {
		if !c.Retired && c.Stats.GamesPlayed >= constants.MVPMinGames {
			candidates = append(candidates, c)
		}
	}

	if mvp := best(candidates, func(c *domain.Card) float64 {
		return c.Stats.AvgContribution()
	}); mvp != nil {
		awards.MVP = mvp.ID
	}
	if dpoy := best(candidates, func(c *domain.Card) float64 {
		return c.Defense * (0.6 + 0.4*c.Stats.AvgContribution()/100)
	}); dpoy != nil {
		awards.DPOY = dpoy.ID
	}

	backups := filter(candidates, func(c *domain.Card) bool {
		return c.Stats.BackupGames >= constants.SixthManMinGames
	})
	if sixth := best(backups, func(c *domain.Card) float64 {
		return c.Stats.AvgContribution()
	}); sixth != nil {
		awards.SixthMan = sixth.ID
	}

	rookies := make([]*domain.Card, 0)
	for _, c := range l.Cards {
		if c.Rookie && !c.Retired && c.Stats.GamesPlayed > 0 {
			rookies = append(rookies, c)
		}
	}
	if roty := best(rookies, func(c *domain.Card) float64 {
		return c.Stats.AvgContribution()
	}); roty != nil {
		awards.Rookie = roty.ID
	}

	finalists := make([]*domain.Card, 0)
	for _, c := range l.Cards {
		if c.Stats.FinalsGames > 0 {
			finalists = append(finalists, c)
		}
	}
	if fmvp := best(finalists, func(c *domain.Card) float64 {
		return c.Stats.FinalsContribution
	}); fmvp != nil {
		awards.FinalsMVP = fmvp.ID
	}

	p.attach(l, "MVP", awards.MVP)
	p.attach(l, "DPOY", awards.DPOY)
	p.attach(l, "Sixth Man", awards.SixthMan)
	p.attach(l, "ROTY", awards.Rookie)
	p.attach(l, "Finals MVP", awards.FinalsMVP)

	p.logger.Info().Int("season", l.Season).Msg("awards calculated")
	return awards, nil
}

func (p *Processor) attach(l *domain.League, label, id string) {
	if id == "" {
		return
	}
	if c, ok := l.Cards[id]; ok {
		c.Awards = append(c.Awards, fmt.Sprintf("%s S%d", label, l.Season))
		l.Log(fmt.Sprintf("Award: %s won %s", c.Name, label))
	}
}

// ApplyAwardCostBumps raises award winners' salary costs for next season.
func (p *Processor) ApplyAwardCostBumps(l *domain.League, awards domain.AwardSet) {
	bumps := []struct {
		id   string
		bump float64
	}{
		{awards.MVP, 0.5},
		{awards.DPOY, 0.3},
		{awards.FinalsMVP, 0.3},
		{awards.Rookie, 0.2},
		{awards.SixthMan, 0.2},
	}
	for _, b := range bumps {
		if b.id == "" {
			continue
		}
		if c, ok := l.Cards[b.id]; ok {
			c.Cost += b.bump
		}
	}
}

// ApplyPatch nerfs the season's overperformers and buffs its
// underperformers, clamping ratings at zero, and records the patch under a
// flavor nickname.
func (p *Processor) ApplyPatch(l *domain.League) domain.Patch {
	played := make([]*domain.Card, 0, len(l.Cards))
	for _, c := range l.Cards {
		if !c.Retired && c.Stats.GamesPlayed > 0 {
			played = append(played, c)
		}
	}
	sort.Slice(played, func(i, j int) bool {
		a, b := played[i], played[j]
		if a.Stats.AvgContribution() != b.Stats.AvgContribution() {
			return a.Stats.AvgContribution() > b.Stats.AvgContribution()
		}
		return a.Name < b.Name
	})

	half := constants.PatchCardCount / 2
	if half > len(played)/2 {
		half = len(played) / 2
	}
	patch := domain.Patch{
		Season:   l.Season,
		Nickname: patchNicknames[p.rng.Intn(len(patchNicknames))],
	}
	for i := 0; i < half; i++ {
		nerf := -(1 + p.rng.Float64()*3)
		patch.Changes = append(patch.Changes, catalog.ApplyDelta(played[i], nerf))
	}
	for i := len(played) - half; i < len(played); i++ {
		buff := 1 + p.rng.Float64()*3
		patch.Changes = append(patch.Changes, catalog.ApplyDelta(played[i], buff))
	}

	l.PatchLog = append(l.PatchLog, patch)
	l.Log(fmt.Sprintf("Patch %q applied with %d changes", patch.Nickname, len(patch.Changes)))
	p.logger.Info().
		Str("nickname", patch.Nickname).
		Int("changes", len(patch.Changes)).
		Msg("balance patch applied")
	return patch
}

// ProcessRetirements retires three low-impact cards plus anyone past their
// lifespan, freezes their HOF probability, backfills rosters that lost a
// card, ages the pool, and generates four rookies.
func (p *Processor) ProcessRetirements(l *domain.League) ([]domain.Retirement, []domain.RookieNote, error) {
	rostered := make(map[string]bool)
	for _, t := range l.Teams {
		for _, id := range t.Roster() {
			rostered[id] = true
		}
	}

	retired := make([]domain.Retirement, 0, constants.RetirementsPerSeason+1)
	forced := make(map[string]bool)
	for id, c := range l.Cards {
		if !c.Retired && c.Age >= c.Lifespan {
			forced[id] = true
			retired = append(retired, p.retire(c, "Lifespan"))
		}
	}

	// policy picks: lowest impact, preferring cards no roster depends on
	pool := make([]*domain.Card, 0, len(l.Cards))
	for id, c := range l.Cards {
		if !c.Retired && !forced[id] && !rostered[id] {
			pool = append(pool, c)
		}
	}
	sort.Slice(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		ai := a.Rating + a.Stats.AvgContribution()
		bi := b.Rating + b.Stats.AvgContribution()
		if ai != bi {
			return ai < bi
		}
		return a.Name < b.Name
	})
	for i := 0; i < constants.RetirementsPerSeason && i < len(pool); i++ {
		retired = append(retired, p.retire(pool[i], "Low impact"))
	}

	if err := p.backfillRosters(l); err != nil {
		return nil, nil, err
	}

	for _, c := range l.Cards {
		if !c.Retired {
			c.Age++
			c.Rookie = false
		}
	}

	if len(l.Cards)+constants.RookiesPerSeason > constants.MaxCardPool {
		pruned := catalog.PruneRetired(l)
		p.logger.Debug().Int("pruned", pruned).Msg("retired cards pruned from pool")
	}

	rookies, err := p.gen.GenerateRookies(constants.RookiesPerSeason)
	if err != nil {
		return nil, nil, err
	}
	notes := make([]domain.RookieNote, 0, len(rookies))
	for _, r := range rookies {
		l.Cards[r.ID] = r
		notes = append(notes, domain.RookieNote{CardID: r.ID, Name: r.Name})
		l.Log(fmt.Sprintf("Rookie: %s joined the league", r.Name))
	}

	p.logger.Info().
		Int("retired", len(retired)).
		Int("rookies", len(notes)).
		Msg("retirements processed")
	return retired, notes, nil
}

func (p *Processor) retire(c *domain.Card, reason string) domain.Retirement {
	c.Retired = true
	c.HOFFrozen = true
	return domain.Retirement{CardID: c.ID, Name: c.Name, Reason: reason}
}

// backfillRosters replaces retired cards on rosters with the best cap-safe
// free agent so every team keeps 3 starters and a backup.
func (p *Processor) backfillRosters(l *domain.League) error {
	for _, t := range l.Teams {
		changed := false
		for slot := 0; slot <= len(t.Starters); slot++ {
			var current string
			if slot < len(t.Starters) {
				current = t.Starters[slot]
			} else {
				current = t.Backup
			}
			c, err := l.Card(current)
			if err != nil {
				return err
			}
			if !c.Retired {
				continue
			}
			sub := p.bestFreeAgent(l, t, current)
			if sub == "" {
				continue // nobody affordable; the retiree plays out one more year
			}
			if slot < len(t.Starters) {
				t.Starters[slot] = sub
			} else {
				t.Backup = sub
			}
			changed = true
			l.Log(fmt.Sprintf("Replacement: %s signed %s for retired %s", t.Name, l.Cards[sub].Name, c.Name))
		}
		if changed {
			cost, err := roster.RosterCost(l, t.Roster())
			if err != nil {
				return err
			}
			t.CostSpent = cost
			chem, err := roster.ComputeChemistry(l, t)
			if err != nil {
				return err
			}
			t.Chemistry = chem
		}
	}
	return nil
}

func (p *Processor) bestFreeAgent(l *domain.League, t *domain.Team, replacing string) string {
	taken := make(map[string]bool)
	for _, other := range l.Teams {
		for _, id := range other.Roster() {
			taken[id] = true
		}
	}
	budget := constants.SalaryCap - t.BoostSpent - t.CostSpent
	if c, ok := l.Cards[replacing]; ok {
		budget += c.Cost
	}

	bestID := ""
	var bestRating float64
	for id, c := range l.Cards {
		if c.Retired || taken[id] || c.Cost > budget {
			continue
		}
		if bestID == "" || c.Rating > bestRating || (c.Rating == bestRating && c.Name < l.Cards[bestID].Name) {
			bestID = id
			bestRating = c.Rating
		}
	}
	return bestID
}

// Archive appends the completed season to history, recomputes HOF
// probabilities, and resets per-season state. Catalog and roster
// composition carry over; the caller regenerates the calendar.
func (p *Processor) Archive(l *domain.League, standings []domain.StandingRow, awards domain.AwardSet, patch domain.Patch, retired []domain.Retirement, rookies []domain.RookieNote) error {
	if l.Phase != domain.PhaseComplete {
		return &domain.InvalidPhaseError{Op: "archive season", Phase: l.Phase}
	}
	champ, err := l.Team(l.Playoffs.Champion)
	if err != nil {
		return err
	}

	l.History = append(l.History, domain.SeasonArchive{
		Season:       l.Season,
		Champion:     champ.ID,
		ChampionName: champ.Name,
		Standings:    standings,
		Awards:       awards,
		Patch:        patch,
		Retirements:  retired,
		Rookies:      rookies,
		Transactions: append([]string(nil), l.Transactions...),
	})

	p.UpdateHOF(l)

	for _, c := range l.Cards {
		c.Stats = domain.CardStats{}
		if !c.Retired {
			c.Fatigue = 100
		}
	}
	for _, t := range l.Teams {
		t.Wins, t.Losses, t.Streak = 0, 0, 0
		t.PointsFor, t.PointsAgainst = 0, 0
		t.TradeUsed = false
		t.Boosts = nil
		t.BoostSpent = 0
		t.ShopPoints = constants.SalaryCap - t.CostSpent
		if t.ShopPoints < 0 {
			t.ShopPoints = 0
		}
		t.SeasonsRun++
	}
	l.Transactions = l.Transactions[:0]
	l.Playoffs = nil
	l.Season++
	l.Week = 0
	l.Phase = domain.PhaseRegular

	p.logger.Info().Int("next_season", l.Season).Msg("season archived")
	return nil
}

// UpdateHOF recomputes Hall-of-Fame probabilities. A card's probability
// never decreases while it is active; retirement freezes it.
func (p *Processor) UpdateHOF(l *domain.League) {
	for _, c := range l.Cards {
		if c.HOFFrozen {
			continue
		}
		var score float64
		for _, a := range c.Awards {
			switch {
			case strings.HasPrefix(a, "Finals MVP"):
				score += 6
			case strings.HasPrefix(a, "MVP"):
				score += 10
			case strings.HasPrefix(a, "DPOY"):
				score += 4
			default:
				score += 2
			}
		}
		score += min(10, c.Stats.AvgContribution()/10)
		score += min(8, float64(c.Age)*0.75)
		score += (c.Rating - 60) * 0.2

		if score < 0 {
			score = 0
		} else if score > 100 {
			score = 100
		}
		if score > c.HOFProb {
			c.HOFProb = score
		}
	}
}

// best returns the highest-scoring card, breaking ties on base rating and
// then name for full determinism.
func best(cards []*domain.Card, score func(*domain.Card) float64) *domain.Card {
	var winner *domain.Card
	var top float64
	for _, c := range cards {
		s := score(c)
		if winner == nil || s > top {
			winner, top = c, s
			continue
		}
		if s == top {
			if c.BaseRating > winner.BaseRating ||
				(c.BaseRating == winner.BaseRating && c.Name < winner.Name) {
				winner = c
			}
		}
	}
	return winner
}

func filter(cards []*domain.Card, keep func(*domain.Card) bool) []*domain.Card {
	out := make([]*domain.Card, 0, len(cards))
	for _, c := range cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
