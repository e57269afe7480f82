package catalog

import (
	"fmt"
	"math/rand"

	"cardleague/internal/constants"
	"cardleague/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var cardNamePool = []string{
	"Miner", "Ice Wizard", "Mega Knight", "Giant Skeleton", "Electro Spirit",
	"Goblin Gang", "Royal Ghost", "Dart Goblin", "Battle Healer", "Cannon Cart",
	"Magic Archer", "Inferno Dragon", "Electro Wizard", "Bandit", "Lumberjack",
	"Skeleton King", "Archer Queen", "Golden Knight", "Monk", "Phoenix",
	"Goblin Drill", "Ram Rider",
}

// Generator synthesizes cards with randomized attributes inside calibrated
// bounds. It carries the injected RNG so pool generation is reproducible.
type Generator struct {
	rng    *rand.Rand
	logger zerolog.Logger
}

func NewGenerator(rng *rand.Rand, logger zerolog.Logger) *Generator {
	return &Generator{rng: rng, logger: logger}
}

// GeneratePool creates the genesis card pool, between MinCardPool and
// MaxCardPool cards.
func (g *Generator) GeneratePool() (map[string]*domain.Card, error) {
	n := constants.MinCardPool + g.rng.Intn(constants.MaxCardPool-constants.MinCardPool+1)
	pool := make(map[string]*domain.Card, n)
	for i := 0; i < n; i++ {
		c, err := g.newCard(g.cardName(i), false)
		if err != nil {
			return nil, err
		}
		pool[c.ID] = c
	}
	g.logger.Info().Int("cards", n).Msg("card pool generated")
	return pool, nil
}

// GenerateRookies synthesizes n fresh cards flagged as rookies. Rookie
// attribute bounds are slightly tighter than the genesis pool so new blood
// is playable but rarely dominant.
func (g *Generator) GenerateRookies(n int) ([]*domain.Card, error) {
	rookies := make([]*domain.Card, 0, n)
	for i := 0; i < n; i++ {
		name := "Rookie " + g.cardName(1000+g.rng.Intn(9000))
		c, err := g.newCard(name, true)
		if err != nil {
			return nil, err
		}
		rookies = append(rookies, c)
	}
	return rookies, nil
}

func (g *Generator) newCard(name string, rookie bool) (*domain.Card, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate card id: %w", err)
	}

	lo, hi := 50.0, 95.0
	if rookie {
		lo, hi = 55.0, 92.0
	}
	rating := lo + g.rng.Float64()*(hi-lo)
	defense := 50 + g.rng.Float64()*45

	cost := baseCost(rating)
	return &domain.Card{
		ID:         id,
		Name:       name,
		Archetype:  domain.Archetypes[g.rng.Intn(len(domain.Archetypes))],
		AttackType: domain.AttackTypes[g.rng.Intn(len(domain.AttackTypes))],
		BaseRating: rating,
		Rating:     rating,
		Defense:    defense,
		Grade:      GradeFor(rating),
		Cost:       cost,
		BaseCost:   cost,
		Age:        0,
		Lifespan:   3 + g.rng.Intn(6),
		Rookie:     rookie,
		Fatigue:    100,
	}, nil
}

func (g *Generator) cardName(i int) string {
	return fmt.Sprintf("%s #%d", cardNamePool[g.rng.Intn(len(cardNamePool))], i+1)
}

// GradeFor maps a rating onto the S/A/B/C/D ladder.
func GradeFor(rating float64) string {
	switch {
	case rating >= 90:
		return "S"
	case rating >= 80:
		return "A"
	case rating >= 70:
		return "B"
	case rating >= 60:
		return "C"
	default:
		return "D"
	}
}

// baseCost maps rating onto salary points, roughly 0.5-4.
func baseCost(rating float64) float64 {
	c := (rating - 50) / 12
	if c < 0.5 {
		c = 0.5
	}
	return round2(c)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
