package league

import (
	"fmt"
	"sort"

	"cardleague/internal/constants"
	"cardleague/internal/domain"
	"cardleague/internal/roster"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var teamNames = []string{
	"Dragons", "Wolves", "Eagles", "Sharks", "Scorpions", "Lions", "Tigers",
	"Pandas", "Foxes", "Frogs", "Bears", "Unicorns", "Krakens", "Boars",
	"Wyverns", "Penguins", "Owls", "Raptors", "Vipers", "Bison", "Giraffes",
	"Zebras", "Stags", "Seals", "Dolphins", "Swans", "Flamingos", "Peacocks",
	"Ravens", "Mantas",
}

var teamLogos = []string{
	"🛡️", "🐉", "🦅", "🦈", "🦂", "🐺", "🦁", "🐯", "🐼", "🦊", "🐸", "🐻",
	"🦄", "🐙", "🐗", "🐲", "🐧", "🦉", "🦖", "🐍", "🦬", "🦒", "🦓", "🦌",
	"🦭", "🐬", "🦢", "🦩", "🦚", "🐦",
}

var gmStyles = []string{"Analyst", "Trader", "Culture", "Risk-Taker", "Balanced"}

// newLeague builds a fresh world: card pool, 30 teams, genesis draft,
// chemistry and the season-one calendar.
func (s *Service) newLeague() (*domain.League, error) {
	pool, err := s.gen.GeneratePool()
	if err != nil {
		return nil, err
	}
	l := &domain.League{
		Seed:      s.cfg.Seed,
		Season:    1,
		Week:      0,
		Phase:     domain.PhaseRegular,
		Cards:     pool,
		Rivalries: make(map[string]*domain.RivalryRecord),
	}

	for i := 0; i < constants.NumTeams; i++ {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate team id: %w", err)
		}
		l.Teams = append(l.Teams, &domain.Team{
			ID:    id,
			Name:  teamNames[i%len(teamNames)],
			Logo:  teamLogos[i%len(teamLogos)],
			Color: fmt.Sprintf("#%06x", s.rng.Intn(0xFFFFFF+1)),
			GM:    gmStyles[s.rng.Intn(len(gmStyles))],
		})
	}

	if err := s.runDraft(l); err != nil {
		return nil, err
	}
	s.sched.GenerateCalendar(l)

	s.logger.Info().
		Int("teams", len(l.Teams)).
		Int("cards", len(l.Cards)).
		Msg("league generated")
	return l, nil
}

// runDraft runs the genesis snake draft: four rounds, three starter slots
// then the backup slot, every pick exclusive and cap-safe.
func (s *Service) runDraft(l *domain.League) error {
	taken := make(map[string]bool)
	picks := 0

	order := make([]int, len(l.Teams))
	for i := range order {
		order[i] = i
	}
	for round := 0; round < constants.DraftRounds; round++ {
		seq := order
		if round%2 == 1 {
			seq = make([]int, len(order))
			for i := range order {
				seq[i] = order[len(order)-1-i]
			}
		}
		isBackup := round == constants.DraftRounds-1
		for _, ti := range seq {
			t := l.Teams[ti]
			id, err := s.draftPick(l, t, taken, constants.DraftRounds-round-1)
			if err != nil {
				return err
			}
			taken[id] = true
			picks++
			c := l.Cards[id]
			t.CostSpent += c.Cost
			c.PickRate++
			if isBackup {
				t.Backup = id
			} else {
				t.Starters = append(t.Starters, id)
			}
			role := "Starter"
			if isBackup {
				role = "Backup"
			}
			l.Log(fmt.Sprintf("Draft: %s selected %s (%s)", t.Name, c.Name, role))
		}
	}

	for _, c := range l.Cards {
		c.PickRate = round2(100 * c.PickRate / float64(picks))
	}
	for _, t := range l.Teams {
		t.ShopPoints = constants.SalaryCap - t.CostSpent
		chem, err := roster.ComputeChemistry(l, t)
		if err != nil {
			return err
		}
		t.Chemistry = chem
	}
	return nil
}

// draftPick selects the strongest card the team can afford while reserving
// minimum salary for its remaining slots.
func (s *Service) draftPick(l *domain.League, t *domain.Team, taken map[string]bool, slotsAfter int) (string, error) {
	reserve := 0.5 * float64(slotsAfter)
	budget := constants.SalaryCap - t.CostSpent - reserve

	candidates := make([]*domain.Card, 0, len(l.Cards))
	for id, c := range l.Cards {
		if taken[id] || c.Retired {
			continue
		}
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.Name < b.Name
	})

	for _, c := range candidates {
		if c.Cost <= budget {
			return c.ID, nil
		}
	}
	// no pick fits with the reserve; fall back to the cheapest card that
	// keeps the team under the hard cap
	var cheapest *domain.Card
	for _, c := range candidates {
		if t.CostSpent+c.Cost > constants.SalaryCap {
			continue
		}
		if cheapest == nil || c.Cost < cheapest.Cost {
			cheapest = c
		}
	}
	if cheapest == nil {
		return "", &domain.CapExceededError{Team: t.Name, Cost: t.CostSpent, Cap: constants.SalaryCap}
	}
	return cheapest.ID, nil
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
